package handler

import (
	"mime/multipart"

	"uniadmin/internal/storage"
)

type storedUpload struct {
	OriginalName string
	StoredName   string
	MimeType     string
	Size         int64
}

// storeUploads persists a batch of uploads. On partial failure the files
// already written are removed so the batch is all-or-nothing.
func storeUploads(store *storage.FileStore, category, prefix string, files []*multipart.FileHeader) ([]storedUpload, error) {
	uploads := make([]storedUpload, 0, len(files))
	for _, f := range files {
		name, err := saveUpload(store, category, prefix, f)
		if err != nil {
			for _, u := range uploads {
				store.Delete(category, u.StoredName)
			}
			return nil, err
		}
		uploads = append(uploads, storedUpload{
			OriginalName: f.Filename,
			StoredName:   name,
			MimeType:     f.Header.Get("Content-Type"),
			Size:         f.Size,
		})
	}
	return uploads, nil
}
