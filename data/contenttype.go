package data

import (
	"path"
	"strings"
)

type ContentType string

const (
	ContentTypeTextPlain         ContentType = "text/plain"
	ContentTypeTextXML           ContentType = "text/xml"
	ContentTypeTextLua           ContentType = "text/x-lua"
	ContentTypeImagePNG          ContentType = "image/png"
	ContentTypeImageJPEG         ContentType = "image/jpeg"
	ContentTypeAudioOGG          ContentType = "audio/ogg"
	ContentTypeAudioWAV          ContentType = "audio/wav"
	ContentTypeVideoTheora       ContentType = "video/ogg"
	ContentTypeFontBitmap        ContentType = "application/x-font-bitmap"
	ContentTypeApplicationFlash  ContentType = "application/x-shockwave-flash"
	ContentTypeApplicationJson   ContentType = "application/json"
	ContentTypeApplicationPack   ContentType = "application/x-b25c"
	ContentTypeApplicationZip    ContentType = "application/zip"
	ContentTypeApplicationStream ContentType = "application/octet-stream"
)

// ExtensionToMIME maps asset file extensions to MIME types.
var ExtensionToMIME = map[string]ContentType{
	".txt":  ContentTypeTextPlain,
	".xml":  ContentTypeTextXML,
	".lua":  ContentTypeTextLua,
	".png":  ContentTypeImagePNG,
	".jpg":  ContentTypeImageJPEG,
	".jpeg": ContentTypeImageJPEG,
	".ogg":  ContentTypeAudioOGG,
	".wav":  ContentTypeAudioWAV,
	".ogv":  ContentTypeVideoTheora,
	".fnt":  ContentTypeFontBitmap,
	".swf":  ContentTypeApplicationFlash,
	".json": ContentTypeApplicationJson,
	".b25c": ContentTypeApplicationPack,
	".zip":  ContentTypeApplicationZip,
}

// GetMIMEType returns the MIME type for the extension of name.
func GetMIMEType(name string) ContentType {
	ext := strings.ToLower(path.Ext(name))

	if mimeType, exists := ExtensionToMIME[ext]; exists {
		return mimeType
	}

	// Default to octet-stream for unknown types
	return ContentTypeApplicationStream
}
