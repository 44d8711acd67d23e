package paths

import (
	"fmt"
	"strings"

	"github.com/dd0wney/jnetc/pkg/topology"
)

// ClearanceMarker is inserted after an LRT stage that hands back to traffic
const ClearanceMarker = "DQ"

// TokenKind distinguishes the three token shapes of a path
type TokenKind int

const (
	StageToken TokenKind = iota
	ClearanceToken
	ArrivalToken
)

// Token is one element of a WTG or AT argument
type Token struct {
	Kind  TokenKind
	Stage *topology.Stage // nil for clearance tokens
}

// text renders the token. Only vehicle stages in the middle of a path carry
// their compensation suffix.
func (t Token) text(middle bool) string {
	switch t.Kind {
	case ClearanceToken:
		return ClearanceMarker
	case ArrivalToken:
		return "j" + t.Stage.ID
	}
	if middle && t.Stage.Kind == topology.Vehicle {
		return t.Stage.ID + t.Stage.Suffix()
	}
	return t.Stage.ID
}

// Path is an ordered token sequence rendered with underscores
type Path struct {
	Tokens []Token
}

func (p Path) String() string {
	parts := make([]string, len(p.Tokens))
	last := len(p.Tokens) - 1
	for i, tok := range p.Tokens {
		parts[i] = tok.text(i > 0 && i < last)
	}
	return strings.Join(parts, "_")
}

// Stages returns the stage tokens of the path in order
func (p Path) Stages() []*topology.Stage {
	out := make([]*topology.Stage, 0, len(p.Tokens))
	for _, tok := range p.Tokens {
		if tok.Kind == StageToken {
			out = append(out, tok.Stage)
		}
	}
	return out
}

// Arrival returns the LRT named by a trailing arrival token
func (p Path) Arrival() (*topology.Stage, bool) {
	if len(p.Tokens) == 0 {
		return nil, false
	}
	last := p.Tokens[len(p.Tokens)-1]
	if last.Kind != ArrivalToken {
		return nil, false
	}
	return last.Stage, true
}

// Wait builds a WTG argument over stages. A clearance marker follows every
// LRT stage whose successor is not an LRT stage; the final token never
// gets one.
func Wait(stages []*topology.Stage) Path {
	tokens := make([]Token, 0, len(stages)+2)
	for i, s := range stages {
		tokens = append(tokens, Token{Kind: StageToken, Stage: s})
		if s.Kind == topology.LRT && i+1 < len(stages) && stages[i+1].Kind != topology.LRT {
			tokens = append(tokens, Token{Kind: ClearanceToken})
		}
	}
	return Path{Tokens: tokens}
}

// Arrive builds an AT argument over stages ending at lrt's arrival token
func Arrive(stages []*topology.Stage, lrt *topology.Stage) Path {
	tokens := make([]Token, 0, len(stages)+1)
	for _, s := range stages {
		tokens = append(tokens, Token{Kind: StageToken, Stage: s})
	}
	tokens = append(tokens, Token{Kind: ArrivalToken, Stage: lrt})
	return Path{Tokens: tokens}
}

// Decode parses a rendered path back into tokens. A token matching a stage
// id exactly is taken as that stage; otherwise a trailing cpn or min suffix
// is stripped; otherwise a leading j names an LRT arrival.
func Decode(g *topology.Graph, text string) (Path, error) {
	if text == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrUnknownToken)
	}
	var p Path
	for _, raw := range strings.Split(text, "_") {
		tok, err := decodeToken(g, raw)
		if err != nil {
			return Path{}, err
		}
		p.Tokens = append(p.Tokens, tok)
	}
	return p, nil
}

func decodeToken(g *topology.Graph, raw string) (Token, error) {
	if raw == ClearanceMarker {
		return Token{Kind: ClearanceToken}, nil
	}
	if s := g.Stage(raw); s != nil {
		return Token{Kind: StageToken, Stage: s}, nil
	}
	for _, sfx := range []topology.CompensationClass{topology.Compensated, topology.Minimum} {
		if id, ok := strings.CutSuffix(raw, string(sfx)); ok {
			if s := g.Stage(id); s != nil {
				return Token{Kind: StageToken, Stage: s}, nil
			}
		}
	}
	if id, ok := strings.CutPrefix(raw, "j"); ok {
		if s := g.Stage(id); s != nil && s.Kind == topology.LRT {
			return Token{Kind: ArrivalToken, Stage: s}, nil
		}
	}
	return Token{}, fmt.Errorf("%w: %q", ErrUnknownToken, raw)
}
