package translate

import "context"

// Service walks a summary value and produces a translated deep copy with the
// same shape. Values are classified into a tagged variant first so the
// recursion rules stay explicit: string leaves are translated, sequences and
// mappings are recursed into, anything else passes through unchanged.
type Service struct {
	Client Client
}

type nodeKind int

const (
	kindString nodeKind = iota
	kindSequence
	kindMapping
	kindOther
)

type node struct {
	kind    nodeKind
	str     string
	seq     []any
	mapping map[string]any
	other   any
}

func classify(v any) node {
	switch t := v.(type) {
	case string:
		return node{kind: kindString, str: t}
	case []any:
		return node{kind: kindSequence, seq: t}
	case map[string]any:
		return node{kind: kindMapping, mapping: t}
	default:
		return node{kind: kindOther, other: v}
	}
}

// Translate returns a translated copy of value. The input is never mutated,
// and a failed leaf fails the whole call with no partial result.
func (s *Service) Translate(ctx context.Context, value any, lang Language) (any, error) {
	return s.walk(ctx, classify(value), lang.Locale())
}

func (s *Service) walk(ctx context.Context, n node, locale string) (any, error) {
	switch n.kind {
	case kindString:
		out, err := s.Client.Translate(ctx, n.str, locale)
		if err != nil {
			return nil, err
		}
		return out, nil
	case kindSequence:
		out := make([]any, 0, len(n.seq))
		for _, item := range n.seq {
			translated, err := s.walk(ctx, classify(item), locale)
			if err != nil {
				return nil, err
			}
			out = append(out, translated)
		}
		return out, nil
	case kindMapping:
		out := make(map[string]any, len(n.mapping))
		for key, item := range n.mapping {
			translated, err := s.walk(ctx, classify(item), locale)
			if err != nil {
				return nil, err
			}
			out[key] = translated
		}
		return out, nil
	default:
		return n.other, nil
	}
}
