package term

import (
	"errors"
	"strings"
)

// ErrMalformedTerm is returned by Decode when the tag byte is unknown, or
// a typed/language-tagged literal payload is missing its '|' separator.
var ErrMalformedTerm = errors.New("term: malformed encoded term")

const (
	tagIRI      = 'U'
	tagBlank    = 'B'
	tagPlain    = 'P'
	tagTyped    = 'D'
	tagLang     = 'L'
	tagGraph    = 'G'
	tagVariable = 'V'
)

// Encode serializes a term to a single tag byte followed by its payload,
// per the Term Codec wire format.
func Encode(t Term) []byte {
	switch v := t.(type) {
	case IRI:
		return append([]byte{tagIRI}, v...)
	case Blank:
		return append([]byte{tagBlank}, v...)
	case Literal:
		switch {
		case v.Lang != "":
			b := make([]byte, 0, 1+len(v.Lang)+1+len(v.Lex))
			b = append(b, tagLang)
			b = append(b, v.Lang...)
			b = append(b, '|')
			return append(b, v.Lex...)
		case v.Datatype != nil:
			b := make([]byte, 0, 1+len(*v.Datatype)+1+len(v.Lex))
			b = append(b, tagTyped)
			b = append(b, string(*v.Datatype)...)
			b = append(b, '|')
			return append(b, v.Lex...)
		default:
			return append([]byte{tagPlain}, v.Lex...)
		}
	case Graph:
		return append([]byte{tagGraph}, v...)
	case Variable:
		return append([]byte{tagVariable}, v...)
	default:
		panic("term: unreachable term kind")
	}
}

// Decode parses the byte form produced by Encode back into a Term.
func Decode(b []byte) (Term, error) {
	if len(b) == 0 {
		return nil, ErrMalformedTerm
	}
	tag, payload := b[0], b[1:]
	switch tag {
	case tagIRI:
		return IRI(payload), nil
	case tagBlank:
		return Blank(payload), nil
	case tagPlain:
		return NewPlainLiteral(string(payload)), nil
	case tagTyped:
		dt, lex, ok := splitFirst(payload)
		if !ok {
			return nil, ErrMalformedTerm
		}
		return NewTypedLiteral(lex, IRI(dt)), nil
	case tagLang:
		lang, lex, ok := splitFirst(payload)
		if !ok {
			return nil, ErrMalformedTerm
		}
		return NewLangLiteral(lex, lang), nil
	case tagGraph:
		return Graph(payload), nil
	case tagVariable:
		return Variable(payload), nil
	default:
		return nil, ErrMalformedTerm
	}
}

// splitFirst splits payload on the first '|' only, so a lexical form that
// itself contains '|' is never truncated.
func splitFirst(payload []byte) (before, after string, ok bool) {
	i := strings.IndexByte(string(payload), '|')
	if i < 0 {
		return "", "", false
	}
	return string(payload[:i]), string(payload[i+1:]), true
}
