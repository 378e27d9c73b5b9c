// assets/embed.go
//
// Static files compiled into the binary:
//   - words.txt: default word list (offline play + local dictionary)
//   - web/:      landing page, play page, script and stylesheet

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed words.txt web
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// WordList returns the embedded default word list, one entry per word.
func WordList() ([]string, error) {
	return readLines("words.txt")
}

// Web returns the web/ subtree for serving pages and static files.
func Web() fs.FS {
	sub, err := fs.Sub(FS, "web")
	if err != nil {
		panic("assets: missing web directory: " + err.Error())
	}
	return sub
}
