package upload

import "time"

// Upload is the metadata of a stored image. The bytes are kept separately.
type Upload struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	UploadDate   time.Time `json:"uploadDate"`
}
