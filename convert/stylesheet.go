package convert

import (
	"bytes"
	"encoding/base64"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// inlineStylesheetResources rewrites url() references in CSS to data URIs so
// that generated documents stay self-contained. References that cannot be
// loaded or embedded are left untouched. Relative references are resolved
// against baseDir and loading never escapes it.
func inlineStylesheetResources(data []byte, baseDir string, log *zap.Logger) []byte {
	var out bytes.Buffer

	lex := css.NewLexer(parse.NewInput(bytes.NewReader(data)))
	for {
		tt, text := lex.Next()
		switch tt {
		case css.ErrorToken:
			// EOF or lexing failure - either way keep what we have
			return out.Bytes()
		case css.URLToken:
			out.WriteString(inlineURLToken(string(text), baseDir, log))
		case css.FunctionToken:
			if !strings.EqualFold(string(text), "url(") {
				out.Write(text)
				continue
			}
			// Quoted references are lexed as function + string + closing paren.
			out.WriteString(inlineURLFunction(lex, baseDir, log))
		default:
			out.Write(text)
		}
	}
}

// inlineURLToken handles the unquoted form, token text is the full "url(...)"
// string.
func inlineURLToken(text, baseDir string, log *zap.Logger) string {
	open := strings.Index(text, "(")
	if open < 0 || !strings.HasSuffix(text, ")") {
		return text
	}
	ref := unquote(strings.TrimSpace(text[open+1 : len(text)-1]))
	if uri, ok := resolveStylesheetResource(ref, baseDir, log); ok {
		return `url("` + uri + `")`
	}
	return text
}

// inlineURLFunction consumes tokens of a quoted url("...") reference up to the
// closing parenthesis and rewrites it when the reference resolves.
func inlineURLFunction(lex *css.Lexer, baseDir string, log *zap.Logger) string {
	var raw strings.Builder
	raw.WriteString("url(")

	var ref string
	for {
		tt, text := lex.Next()
		if tt == css.ErrorToken {
			return raw.String()
		}
		raw.Write(text)
		if tt == css.StringToken && ref == "" {
			ref = unquote(string(text))
		}
		if tt == css.RightParenthesisToken {
			break
		}
	}

	if uri, ok := resolveStylesheetResource(ref, baseDir, log); ok {
		return `url("` + uri + `")`
	}
	return raw.String()
}

// resolveStylesheetResource loads a referenced resource and returns it as a
// data URI.
func resolveStylesheetResource(ref, baseDir string, log *zap.Logger) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "#") {
		return "", false
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		log.Warn("External URL in stylesheet cannot be embedded", zap.String("url", ref))
		return "", false
	}

	// os.DirFS roots the lookup at baseDir and refuses to serve absolute paths
	// or paths escaping the root, preventing traversal through references like
	// url('../../etc/passwd').
	resourcePath := path.Clean(filepath.ToSlash(ref))
	data, err := fs.ReadFile(os.DirFS(baseDir), resourcePath)
	if err != nil {
		log.Warn("Unable to load stylesheet resource",
			zap.String("url", ref), zap.String("basePath", baseDir), zap.Error(err))
		return "", false
	}

	// Prefer extension based detection - fonts are commonly misdetected by
	// content sniffing.
	mimeType := extToMimeType(filepath.Ext(ref))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	if !validateLoadedResource(mimeType, data) {
		log.Warn("Loaded stylesheet resource failed validation",
			zap.String("url", ref), zap.String("mime", mimeType))
		return "", false
	}

	log.Debug("Inlined stylesheet resource",
		zap.String("url", ref), zap.String("mime", mimeType), zap.Int("bytes", len(data)))

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

// validateLoadedResource performs additional sanity checks on loaded resource data
func validateLoadedResource(mimeType string, data []byte) bool {
	switch mimeType {
	case "font/woff":
		return filetype.Is(data, "woff")
	case "font/woff2":
		return filetype.Is(data, "woff2")
	case "font/ttf":
		return filetype.Is(data, "ttf")
	case "font/otf":
		return filetype.Is(data, "otf")
	}
	return true
}

// extToMimeType returns MIME type for file extensions commonly referenced
// from stylesheets
func extToMimeType(ext string) string {
	switch strings.ToLower(ext) {
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	case ".eot":
		return "application/vnd.ms-fontobject"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
