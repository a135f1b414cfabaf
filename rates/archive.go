package rates

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// The international dataset ships as a ZIP archive containing a single XML
// document (ocallhist-YY.xml). This file owns the mechanics of getting from
// raw bytes to IntlRateRecord values.

// IsZIPArchive checks the two-byte ZIP magic number. Publication gaps show
// up as an HTML error page where the archive should be, so this is the
// cheap first gate before attempting extraction.
func IsZIPArchive(raw []byte) bool {
	return len(raw) >= 2 && raw[0] == 0x50 && raw[1] == 0x4B
}

// ExtractArchive unwraps the ZIP and parses the XML document inside into
// rate records. The records keep their source order; the resolver's
// first-match tie-break depends on it.
func ExtractArchive(raw []byte) ([]IntlRateRecord, error) {
	if !IsZIPArchive(raw) {
		return nil, fmt.Errorf("%w: payload is not a ZIP archive", ErrCorruptArchive)
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	var doc []byte
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", ErrCorruptArchive, f.Name, err)
		}
		doc, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrCorruptArchive, f.Name, err)
		}
		break
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: no XML document in archive", ErrCorruptArchive)
	}

	records, err := parseRecords(doc)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// parseRecords walks the document for <record> elements regardless of the
// root element's name, which has shifted across dataset revisions.
func parseRecords(doc []byte) ([]IntlRateRecord, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	var records []IntlRateRecord
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "record" {
			continue
		}
		var rec IntlRateRecord
		if err := dec.DecodeElement(&rec, &start); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: document contains no rate records", ErrCorruptArchive)
	}
	return records, nil
}
