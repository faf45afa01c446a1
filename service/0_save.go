package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fulldump/apitest"

	"github.com/fulldump/mockdb/utils"
)

// ExamplesPathEnv names the directory where Save writes the api examples.
// Nothing is written when it is empty.
const ExamplesPathEnv = "API_EXAMPLES_PATH"

const exampleHost = "localhost:3000"

// Save writes a markdown example (curl line plus raw http exchange) of an
// acceptance request.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv(ExamplesPathEnv)
	if examplesPath == "" {
		return
	}

	filename := filepath.Join(examplesPath, slug(title)+".md")
	err := os.WriteFile(filename, []byte(example(response, title, description)), 0666)
	if err != nil {
		fmt.Println("Saving example:", err)
	}
}

func example(response *apitest.Response, title, description string) string {

	request := response.Request
	target := request.URL.Path
	if request.URL.RawQuery != "" {
		target += "?" + request.URL.RawQuery
	}
	requestBody := formatJSON(response.BodyRequestString())

	s := &strings.Builder{}

	fmt.Fprintf(s, "# %s\n\n", title)
	if description = strings.TrimSpace(description); description != "" {
		fmt.Fprintf(s, "%s\n\n", description)
	}

	s.WriteString("Curl example:\n\n```sh\ncurl")
	if request.Method != http.MethodGet {
		fmt.Fprintf(s, " -X %s", request.Method)
	}
	fmt.Fprintf(s, " \"http://%s%s\"", exampleHost, target)
	writeHeaders(s, request.Header, " \\\n-H \"%s: %s\"")
	if requestBody != "" {
		fmt.Fprintf(s, " \\\n-d '%s'", requestBody)
	}
	s.WriteString("\n```\n\n")

	s.WriteString("HTTP request/response example:\n\n```http\n")
	fmt.Fprintf(s, "%s %s %s\nHost: %s\n", request.Method, target, request.Proto, exampleHost)
	writeHeaders(s, request.Header, "%s: %s\n")
	fmt.Fprintf(s, "\n%s\n\n", requestBody)

	fmt.Fprintf(s, "%s %s\n", response.Proto, response.Status)
	response.Header.Del("Date")
	writeHeaders(s, response.Header, "%s: %s\n")
	fmt.Fprintf(s, "\n%s\n```\n", formatJSON(response.BodyString()))

	return s.String()
}

func writeHeaders(s *strings.Builder, header http.Header, format string) {
	for _, k := range utils.GetKeys(map[string][]string(header)) {
		for _, v := range header[k] {
			fmt.Fprintf(s, format, k, v)
		}
	}
}

func formatJSON(body string) string {
	out := &bytes.Buffer{}
	err := json.Indent(out, []byte(body), "", "    ")
	if err != nil {
		return body
	}
	return out.String()
}

var notSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(title string) string {
	return strings.Trim(notSlug.ReplaceAllString(strings.ToLower(title), "_"), "_")
}
