package directory

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const dateLayout = "2006-01-02 15:04:05"

type authCommand struct {
	XMLName  xml.Name `xml:"COMMANDE"`
	Type     string   `xml:"TYPE"`
	AppName  string   `xml:"APPLINAME"`
	Cuid     string   `xml:"CUID"`
	Password string   `xml:"PASSWORD"`
	Date     string   `xml:"DATE"`
}

func encodeAuthCommand(appName, cuid, password string, now time.Time) ([]byte, error) {
	body, err := xml.MarshalIndent(authCommand{
		Type:     "AUTH_SVC",
		AppName:  appName,
		Cuid:     cuid,
		Password: password,
		Date:     now.UTC().Format(dateLayout),
	}, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// Tag aliases, in order of preference. Names are compared lowercased.
var (
	cuidTags       = []string{"cuid", "login"}
	nameTags       = []string{"name", "nom", "fullname"}
	emailTags      = []string{"email", "mail"}
	phoneTags      = []string{"phone", "telephone", "tel", "mobile"}
	departmentTags = []string{"department", "service"}
	statusTags     = []string{"status"}
	errorCodeTags  = []string{"code", "error_code", "error"}
)

// answer holds the text of every element of a directory response, keyed by
// lowercased local name. The first occurrence of a name wins.
type answer struct {
	fields   map[string]string
	hasError bool
}

func parseAnswer(r io.Reader) (answer, error) {
	a := answer{fields: make(map[string]string)}
	dec := xml.NewDecoder(r)
	dec.Strict = false

	type frame struct {
		name string
		text strings.Builder
	}
	var stack []*frame

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return answer{}, fmt.Errorf("failed to parse directory answer: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			if name == "error" {
				a.hasError = true
			}
			stack = append(stack, &frame{name: name})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, seen := a.fields[top.name]; !seen {
				a.fields[top.name] = strings.TrimSpace(top.text.String())
			}
		}
	}

	if len(a.fields) == 0 {
		return answer{}, errors.New("empty directory answer")
	}
	return a, nil
}

// first returns the first non-empty value among the aliases.
func (a answer) first(aliases []string) string {
	for _, tag := range aliases {
		if v := a.fields[tag]; v != "" {
			return v
		}
	}
	return ""
}
