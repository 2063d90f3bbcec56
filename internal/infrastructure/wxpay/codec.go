package wxpay

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

const maxFields = 64

// Decode parses the flat <xml><key>value</key>...</xml> document sent by the gateway.
//
// DOCTYPE and ENTITY declarations are refused outright, only the predefined XML
// entities are expanded and nothing is ever fetched from outside the document.
// Every failure is reported as domain.ErrMalformedNotification.
func Decode(raw []byte) (map[string]string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty body", domain.ErrMalformedNotification)
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = true
	dec.Entity = nil
	// non UTF-8 charsets are rejected by leaving CharsetReader unset

	fields := make(map[string]string)
	depth := 0
	rootClosed := false
	var key string
	var value strings.Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedNotification, err)
		}

		switch t := tok.(type) {
		case xml.Directive:
			return nil, fmt.Errorf("%w: directives are not allowed", domain.ErrMalformedNotification)
		case xml.ProcInst:
			if t.Target != "xml" || depth > 0 || rootClosed || len(fields) > 0 {
				return nil, fmt.Errorf("%w: unexpected processing instruction", domain.ErrMalformedNotification)
			}
		case xml.StartElement:
			if rootClosed {
				return nil, fmt.Errorf("%w: content after root element", domain.ErrMalformedNotification)
			}
			depth++
			switch depth {
			case 1:
			case 2:
				key = t.Name.Local
				value.Reset()
			default:
				return nil, fmt.Errorf("%w: nested element %q", domain.ErrMalformedNotification, t.Name.Local)
			}
		case xml.EndElement:
			if depth == 2 {
				if _, dup := fields[key]; dup {
					return nil, fmt.Errorf("%w: duplicate field %q", domain.ErrMalformedNotification, key)
				}
				if len(fields) >= maxFields {
					return nil, fmt.Errorf("%w: too many fields", domain.ErrMalformedNotification)
				}
				fields[key] = value.String()
			}
			depth--
			if depth == 0 {
				rootClosed = true
			}
		case xml.CharData:
			switch depth {
			case 2:
				value.Write(t)
			default:
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, fmt.Errorf("%w: unexpected text", domain.ErrMalformedNotification)
				}
			}
		case xml.Comment:
		}
	}

	if !rootClosed {
		return nil, fmt.Errorf("%w: missing root element", domain.ErrMalformedNotification)
	}
	return fields, nil
}

// Encode renders fields as a flat document, keys sorted, values wrapped in CDATA.
func Encode(fields map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !isName(k) {
			return nil, fmt.Errorf("invalid field name %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString("<xml>")
	for _, k := range keys {
		buf.WriteString("<" + k + "><![CDATA[")
		buf.WriteString(strings.ReplaceAll(fields[k], "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></" + k + ">")
	}
	buf.WriteString("</xml>")
	return buf.Bytes(), nil
}

// EncodeAck renders the acknowledgement document the gateway parses.
func EncodeAck(ack domain.Ack) []byte {
	body, err := Encode(map[string]string{
		domain.FieldReturnCode: ack.Code,
		domain.FieldReturnMsg:  ack.Message,
	})
	if err != nil {
		// field names are constants
		panic(err)
	}
	return body
}

func isName(s string) bool {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "xml") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}
