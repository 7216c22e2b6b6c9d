package core

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/Masterminds/sprig/v3"
)

const publicPrefix = "/public/"

// TemplateFuncs is the sprig HTML function map plus the greet helpers.
// public may be nil, in which case versioned leaves every URL unchanged.
func TemplateFuncs(public fs.FS) template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["trunc"] = truncRunes
	funcs["versioned"] = func(path string) string {
		return versionedURL(public, path)
	}
	return funcs
}

// truncRunes keeps sprig's trunc signature but counts runes, so a cut never
// lands inside a multibyte character. A negative c keeps the last -c runes.
func truncRunes(c int, s string) string {
	runes := []rune(s)
	switch {
	case c < 0 && len(runes)+c > 0:
		return string(runes[len(runes)+c:])
	case c >= 0 && len(runes) > c:
		return string(runes[:c])
	}
	return s
}

// versionedURL appends a short content hash to a /public/ URL so browsers
// refetch the asset when it changes.
func versionedURL(public fs.FS, path string) string {
	if public == nil || !strings.HasPrefix(path, publicPrefix) {
		return path
	}

	rel := strings.TrimPrefix(path, publicPrefix)
	content, err := fs.ReadFile(public, rel)
	if err != nil {
		return path
	}

	h := md5.New()
	h.Write(content)
	hash := hex.EncodeToString(h.Sum(nil))[:6]

	var out strings.Builder
	fmt.Fprintf(&out, "%s%s?v=%s", publicPrefix, rel, hash)
	return out.String()
}
