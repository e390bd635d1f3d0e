package domain

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// DefaultAudioMIMEType is used when the type of an attachment is unknown.
const DefaultAudioMIMEType = "audio/wav"

// UploadFileName is the multipart file name audio is sent under.
const UploadFileName = "audio_message.mp3"

// UploadMIMEType is the content type audio is sent with.
const UploadMIMEType = "audio/mpeg"

// AudioAttachment is audio held as pending input before it is sent.
type AudioAttachment struct {
	// Name is a display name (file name or "Recorded Audio").
	Name string

	// MIMEType is the content type of Data.
	MIMEType string

	// Data is the raw audio.
	Data []byte

	// URL is an ephemeral playback handle for immediate local playback.
	URL string

	// Base64 is Data encoded as a data URL for persistence.
	Base64 string
}

// NewAudioAttachment builds an attachment from raw bytes.
// The playback URL is filled in later by a blob store.
func NewAudioAttachment(name, mimeType string, data []byte) (*AudioAttachment, error) {
	if len(data) == 0 {
		return nil, ErrNoAudio
	}
	if mimeType == "" {
		mimeType = AudioMIMEType(name)
	}
	return &AudioAttachment{
		Name:     name,
		MIMEType: mimeType,
		Data:     data,
		Base64:   EncodeDataURL(mimeType, data),
	}, nil
}

// AttachmentFromDataURL rebuilds an attachment from a persisted data URL.
func AttachmentFromDataURL(name, dataURL string) (*AudioAttachment, error) {
	mimeType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return &AudioAttachment{
		Name:     name,
		MIMEType: mimeType,
		Data:     data,
		Base64:   dataURL,
	}, nil
}

// AudioMIMEType guesses an audio content type from a file name.
func AudioMIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".webm":
		return "audio/webm"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "audio/") {
		return t
	}
	return DefaultAudioMIMEType
}

// EncodeDataURL encodes bytes as a base64 data URL.
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a base64 data URL into its content type and bytes.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	start := strings.Index(header, ":")
	end := strings.Index(header, ";")
	if start < 0 || end <= start {
		return "", nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return header[start+1 : end], data, nil
}
