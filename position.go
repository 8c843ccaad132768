package chessvision

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

// BoardGrid is the full 8x8 recognition result. Row 0 is rank 8, col 0 is
// file a. Every cell is always present; uncertainty lives inside the
// CellLabel, never as a hole.
type BoardGrid [8][8]CellLabel

var typeLetters = map[PieceType]byte{
	Pawn:   'p',
	Knight: 'n',
	Bishop: 'b',
	Rook:   'r',
	Queen:  'q',
	King:   'k',
}

var letterTypes = map[byte]PieceType{
	'p': Pawn,
	'n': Knight,
	'b': Bishop,
	'r': Rook,
	'q': Queen,
	'k': King,
}

// pieceLetter encodes one occupied cell: uppercase white, lowercase black,
// '?' when the color could not be determined. A '?' makes the position
// string a diagnostic rather than a legal FEN; callers that need a valid
// position must check for it (or use ChessBoard).
func pieceLetter(l CellLabel) byte {
	switch l.Color {
	case ColorWhite:
		return typeLetters[l.Type] - 'a' + 'A'
	case ColorBlack:
		return typeLetters[l.Type]
	default:
		return '?'
	}
}

// PositionString assembles the rank-major piece placement string, rank 8
// first, consecutive empties run-length encoded, ranks joined with '/'.
func (g *BoardGrid) PositionString() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empties := 0
		for col := 0; col < 8; col++ {
			l := g[row][col]
			if l.Empty {
				empties++
				continue
			}
			if empties > 0 {
				sb.WriteByte('0' + byte(empties))
				empties = 0
			}
			sb.WriteByte(pieceLetter(l))
		}
		if empties > 0 {
			sb.WriteByte('0' + byte(empties))
		}
	}
	return sb.String()
}

// Counts summarizes a grid in one pass. Empty+White+Black+Unknown is
// always 64; Unknown stays zero whenever every occupant's color resolved.
type Counts struct {
	Empty   int
	White   int
	Black   int
	Unknown int
}

func (g *BoardGrid) Counts() Counts {
	var c Counts
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			l := g[row][col]
			switch {
			case l.Empty:
				c.Empty++
			case l.Color == ColorWhite:
				c.White++
			case l.Color == ColorBlack:
				c.Black++
			default:
				c.Unknown++
			}
		}
	}
	return c
}

// ParsePositionString is the inverse of PositionString. It accepts the '?'
// marker as an unknown-color pawn, so parse(assemble(g)) reproduces g
// exactly for grids whose colors are all known.
func ParsePositionString(s string) (*BoardGrid, error) {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("want 8 ranks, got %d", len(ranks))
	}

	var g BoardGrid
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				n := int(ch - '0')
				for k := 0; k < n; k++ {
					if col > 7 {
						return nil, fmt.Errorf("rank %d overflows 8 files", 8-row)
					}
					g[row][col] = CellLabel{Empty: true}
					col++
				}
				continue
			}
			if col > 7 {
				return nil, fmt.Errorf("rank %d overflows 8 files", 8-row)
			}
			if ch == '?' {
				g[row][col] = CellLabel{Color: ColorUnknown, Type: Pawn}
				col++
				continue
			}
			lower := ch | 0x20
			pt, ok := letterTypes[lower]
			if !ok {
				return nil, fmt.Errorf("bad piece letter %q in rank %d", ch, 8-row)
			}
			color := ColorBlack
			if ch < 'a' {
				color = ColorWhite
			}
			g[row][col] = CellLabel{Color: color, Type: pt}
			col++
		}
		if col != 8 {
			return nil, fmt.Errorf("rank %d covers %d files, want 8", 8-row, col)
		}
	}
	return &g, nil
}

var gridRanks = [8]chess.Rank{
	chess.Rank8, chess.Rank7, chess.Rank6, chess.Rank5,
	chess.Rank4, chess.Rank3, chess.Rank2, chess.Rank1,
}

var chessPieces = map[PieceColor]map[PieceType]chess.Piece{
	ColorWhite: {
		Pawn:   chess.WhitePawn,
		Knight: chess.WhiteKnight,
		Bishop: chess.WhiteBishop,
		Rook:   chess.WhiteRook,
		Queen:  chess.WhiteQueen,
		King:   chess.WhiteKing,
	},
	ColorBlack: {
		Pawn:   chess.BlackPawn,
		Knight: chess.BlackKnight,
		Bishop: chess.BlackBishop,
		Rook:   chess.BlackRook,
		Queen:  chess.BlackQueen,
		King:   chess.BlackKing,
	},
}

// ChessBoard hands the grid to the rules layer. It refuses grids with
// unknown-color occupants; the caller decides whether to re-shoot or to
// resolve those cells by hand. Piece types carry the classifier's
// low-confidence guesses, so the resulting board may still be illegal;
// validating it (kings present, side to move, ...) is the rules layer's
// job, not ours.
func (g *BoardGrid) ChessBoard() (*chess.Board, error) {
	m := map[chess.Square]chess.Piece{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			l := g[row][col]
			if l.Empty {
				continue
			}
			if l.Color == ColorUnknown {
				return nil, fmt.Errorf("cell %s has a piece of unknown color", Cell{row, col}.Name())
			}
			sq := chess.NewSquare(chess.File(col)+chess.FileA, gridRanks[row])
			m[sq] = chessPieces[l.Color][l.Type]
		}
	}
	return chess.NewBoard(m), nil
}

// FEN returns a full FEN line for the grid, defaulting side-to-move and
// the state fields the camera cannot see, after the chess library accepts
// it. Grids with unknown cells fail here rather than emit a '?' placeholder.
func (g *BoardGrid) FEN() (string, error) {
	c := g.Counts()
	if c.Unknown > 0 {
		return "", fmt.Errorf("%d cells have unknown color, position string %q is diagnostic only", c.Unknown, g.PositionString())
	}
	fen := g.PositionString() + " w - - 0 1"
	if _, err := chess.FEN(fen); err != nil {
		return "", fmt.Errorf("recognized position is not a valid FEN: %w", err)
	}
	return fen, nil
}
