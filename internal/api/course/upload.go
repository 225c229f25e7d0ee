package course

import (
	"mime/multipart"

	"github.com/arturocg96/EduTrackAPI/internal/service"
	"github.com/arturocg96/EduTrackAPI/internal/storage"
)

// openImage opens an optional uploaded file. The returned close func is
// always safe to call.
func openImage(fh *multipart.FileHeader) (*service.ImageUpload, func(), error) {
	if fh == nil {
		return nil, func() {}, nil
	}
	if _, err := storage.ValidateImageExtension(fh.Filename); err != nil {
		return nil, func() {}, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &service.ImageUpload{Name: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
