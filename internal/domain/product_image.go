package domain

import "errors"

var (
	// ErrImageNotFound is returned when fetching a product image that does not exist.
	ErrImageNotFound = errors.New("image not found")
	// ErrImageTypeNotSupported is returned for uploads that are not PNG, JPEG or TIFF.
	ErrImageTypeNotSupported = errors.New("image type not supported")
	// ErrImageTypeMismatch is returned when the file extension does not match the content.
	ErrImageTypeMismatch = errors.New("image ext does not match content type")
	// ErrImageTooLarge is returned when an upload exceeds the configured size limit.
	ErrImageTooLarge = errors.New("image too large")
)

// ProductImage is a catalog image: raw encoded bytes plus the MIME type
// sniffed from the content. Images are content-addressed by BlobID.
type ProductImage struct {
	ID       BlobID
	MIMEType string
	data     []byte
}

// NewProductImage creates a ProductImage from raw bytes.
func NewProductImage(id BlobID, mimeType string, data []byte) ProductImage {
	return ProductImage{
		ID:       id,
		MIMEType: mimeType,
		data:     data,
	}
}

// Bytes returns the encoded image content.
func (img ProductImage) Bytes() []byte {
	return img.data
}

// Size returns the content size in bytes.
func (img ProductImage) Size() int64 {
	return int64(len(img.data))
}

// ImageIDResponse represents a response containing a stored image's ID.
type ImageIDResponse struct {
	ID       string `json:"id"`
	MIMEType string `json:"mimeType"`
}
