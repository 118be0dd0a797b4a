package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/unicode"
)

// ExtractTextFromPDF returns the page count and the text shown on every page,
// one line per text-showing operator.
func ExtractTextFromPDF(data []byte) (pages int, text string, err error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, "", fmt.Errorf("không thể tạo reader PDF: %w", err)
	}

	// The content interpreter panics on malformed operators.
	defer func() {
		if r := recover(); r != nil {
			pages, text, err = 0, "", fmt.Errorf("malformed PDF content: %v", r)
		}
	}()

	var textBuilder strings.Builder
	pages = reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, s := range pageStrings(page) {
			textBuilder.WriteString(s)
			textBuilder.WriteByte('\n')
		}
	}

	return pages, textBuilder.String(), nil
}

// pageStrings decodes the strings shown on p with the font active at each
// operator. Type0 fonts in Identity-H carry UTF-16BE codes (fpdf writes UTF-8
// fonts that way); the reader's ToUnicode decoding only keeps their low byte.
func pageStrings(p pdf.Page) []string {
	contents := p.V.Key("Contents")
	if contents.IsNull() {
		return nil
	}

	decoders := make(map[string]func(string) string)
	for _, name := range p.Fonts() {
		font := p.Font(name)
		if font.V.Key("Subtype").Name() == "Type0" && font.V.Key("Encoding").Name() == "Identity-H" {
			decoders[name] = decodeUTF16BE
			continue
		}
		decoders[name] = font.Encoder().Decode
	}

	decode := func(raw string) string { return raw }
	var out []string
	pdf.Interpret(contents, func(stk *pdf.Stack, op string) {
		args := make([]pdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		if len(args) == 0 {
			return
		}

		switch op {
		case "Tf":
			if d, ok := decoders[args[0].Name()]; ok {
				decode = d
			}
		case "Tj", "'", "\"":
			out = append(out, decode(args[len(args)-1].RawString()))
		case "TJ":
			var line strings.Builder
			arr := args[0]
			for i := 0; i < arr.Len(); i++ {
				if v := arr.Index(i); v.Kind() == pdf.String {
					line.WriteString(decode(v.RawString()))
				}
			}
			out = append(out, line.String())
		}
	})
	return out
}

func decodeUTF16BE(raw string) string {
	s, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return s
}
