package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// checkDuplicateKeys walks the raw JSON token stream and rejects objects
// with repeated sibling keys. encoding/json silently keeps the last value,
// which would mask authoring mistakes in the deployed document.
func checkDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return walkTokens(dec, "")
}

func walkTokens(dec *json.Decoder, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]struct{})
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("object key is not a string: %v", keyTok)
			}

			child := key
			if path != "" {
				child = path + "." + key
			}
			if _, dup := seen[key]; dup {
				return &duplicateKeyError{path: child, offset: dec.InputOffset()}
			}
			seen[key] = struct{}{}

			if err := walkTokens(dec, child); err != nil {
				return err
			}
		}
		_, err = dec.Token()
		return err
	case '[':
		index := 0
		for dec.More() {
			if err := walkTokens(dec, fmt.Sprintf("%s[%d]", path, index)); err != nil {
				return err
			}
			index++
		}
		_, err = dec.Token()
		return err
	}

	return nil
}
