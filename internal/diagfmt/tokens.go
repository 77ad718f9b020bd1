package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"prism/internal/semtok"
	"prism/internal/token"
)

// TokenOutput is the JSON shape of one token.
type TokenOutput struct {
	Type   string `json:"type"`
	Line   uint32 `json:"line"`
	Col    uint32 `json:"col"`
	Length uint32 `json:"length"`
}

// TokenDump is the msgpack dump envelope. The legend travels with the
// data so a consumer can decode type indices without sharing code.
type TokenDump struct {
	Language string   `msgpack:"language"`
	Legend   []string `msgpack:"legend"`
	Data     []uint32 `msgpack:"data"`
}

// FormatTokens renders a token stream in the requested format.
func FormatTokens(w io.Writer, tokens []token.Token, language string, format TokenFormat) error {
	switch format {
	case TokensJSON:
		return formatTokensJSON(w, tokens)
	case TokensMsgpack:
		return formatTokensMsgpack(w, tokens, language)
	case TokensData:
		return formatTokensData(w, tokens)
	default:
		return formatTokensPretty(w, tokens)
	}
}

func formatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, t := range tokens {
		_, err := fmt.Fprintf(w, "%4d: %-10s at %d:%d len %d\n",
			i+1, t.Type.String(), t.Line+1, t.Col+1, t.Length)
		if err != nil {
			return err
		}
	}
	return nil
}

func formatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, t := range tokens {
		output = append(output, TokenOutput{
			Type:   t.Type.String(),
			Line:   t.Line,
			Col:    t.Col,
			Length: t.Length,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func formatTokensMsgpack(w io.Writer, tokens []token.Token, language string) error {
	dump := TokenDump{
		Language: language,
		Legend:   semtok.Legend(),
		Data:     semtok.Encode(tokens),
	}
	return msgpack.NewEncoder(w).Encode(&dump)
}

// formatTokensData prints the delta encoding, five integers per line,
// in the order they appear on the wire.
func formatTokensData(w io.Writer, tokens []token.Token) error {
	data := semtok.Encode(tokens)
	for i := 0; i < len(data); i += 5 {
		_, err := fmt.Fprintf(w, "%d %d %d %d %d\n",
			data[i], data[i+1], data[i+2], data[i+3], data[i+4])
		if err != nil {
			return err
		}
	}
	return nil
}
