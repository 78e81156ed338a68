package allfiles

import (
	"path"
	"strconv"
	"strings"
)

// FormatPath replaces placeholders in template with parts of p:
//
//	{}     the path itself
//	{base} the last element
//	{dir}  everything but the last element
//	{ext}  the extension, including the dot
//
// Quoted variants ({""}, {"base"}, {"dir"}, {"ext"}) insert the value as a Go
// quoted string.
func FormatPath(template, p string) string {
	base := path.Base(p)
	dir := path.Dir(p)
	ext := path.Ext(p)

	r := strings.NewReplacer(
		`{""}`, strconv.Quote(p),
		`{"base"}`, strconv.Quote(base),
		`{"dir"}`, strconv.Quote(dir),
		`{"ext"}`, strconv.Quote(ext),
		"{}", p,
		"{base}", base,
		"{dir}", dir,
		"{ext}", ext,
	)
	return r.Replace(template)
}
