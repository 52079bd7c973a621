package intercept

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// Encoding is how a captured body was understood.
type Encoding string

const (
	EncodingNone      Encoding = "none"
	EncodingJSON      Encoding = "json"
	EncodingForm      Encoding = "form"
	EncodingMultipart Encoding = "multipart"
	EncodingOpaque    Encoding = "opaque"
)

// maxMultipartMemory bounds the in-memory part of a multipart decode.
const maxMultipartMemory = 8 << 20

// DecodeError records why a captured body could not be decoded.
// It never reaches the host client.
type DecodeError struct {
	JSON error
	Form error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("body is neither JSON (%v) nor form data (%v)", e.JSON, e.Form)
}

// Capture is an intercepted call exactly as the caller supplied it.
type Capture struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// Payload is the decoded body, nil when Encoding is none or opaque.
	Payload  map[string]any
	Encoding Encoding
	Err      *DecodeError
}

// Decoded reports whether a structured payload is available.
func (c *Capture) Decoded() bool {
	return c.Payload != nil
}

// decode tries JSON first, then form fields, and keeps the body opaque otherwise.
func decode(body []byte, contentType string) (map[string]any, Encoding, *DecodeError) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, EncodingNone, nil
	}

	payload, jsonErr := decodeJSON(body)
	if jsonErr == nil {
		return payload, EncodingJSON, nil
	}

	payload, enc, formErr := decodeForm(body, contentType)
	if formErr == nil {
		return payload, enc, nil
	}

	return nil, EncodingOpaque, &DecodeError{JSON: jsonErr, Form: formErr}
}

func decodeJSON(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("JSON body is null")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON body")
	}
	return payload, nil
}

func decodeForm(body []byte, contentType string) (map[string]any, Encoding, error) {
	mediaType, params, _ := mime.ParseMediaType(contentType)

	if mediaType == "multipart/form-data" {
		boundary := params["boundary"]
		if boundary == "" {
			return nil, "", errors.New("multipart body without boundary")
		}
		form, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(maxMultipartMemory)
		if err != nil {
			return nil, "", err
		}
		defer form.RemoveAll()
		return flatten(form.Value), EncodingMultipart, nil
	}

	text := string(body)
	if !strings.Contains(text, "=") {
		return nil, "", errors.New("no form fields")
	}
	values, err := url.ParseQuery(text)
	if err != nil {
		return nil, "", err
	}
	return flatten(values), EncodingForm, nil
}

// flatten keeps single-valued fields as strings and repeated ones as slices.
func flatten(values map[string][]string) map[string]any {
	payload := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 1 {
			payload[k] = v[0]
		} else {
			payload[k] = v
		}
	}
	return payload
}
