package config

// Specification of image resizing mode.
// ENUM(none, keepAR, stretch)
type ImageResizeMode int

// Specification of requested output type.
// ENUM(html, bundle)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtHtml:
		return ".html"
	case OutputFmtBundle:
		return ".zip"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
