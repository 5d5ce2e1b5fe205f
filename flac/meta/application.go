package meta

import (
	"io"

	"bitrotio/lossless/errs"
)

// Application contains third party application specific data.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_application
type Application struct {
	// ID is the registered 4-byte application identifier.
	//
	// ref: https://www.xiph.org/flac/id.html
	ID string
	// Data is the application-defined payload.
	Data []byte
}

// decodeApplication parses an APPLICATION block body: a 4-byte ID followed
// by length-4 bytes of application-defined data, where length is the
// enclosing block header's length.
func decodeApplication(r io.Reader, length int) (*Application, error) {
	var idBuf [4]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return nil, errs.IO("meta: application id", err)
	}
	app := &Application{ID: string(idBuf[:])}
	if length < 4 {
		return nil, errs.New(errs.MalformedHeader, "meta: application block shorter than its id")
	}
	data := make([]byte, length-4)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errs.IO("meta: application data", err)
	}
	app.Data = data
	return app, nil
}
