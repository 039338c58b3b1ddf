package catalogsvc

// CatalogConfig holds configuration parameters for the catalog service.
type CatalogConfig struct {
	// Interpolator specifies the image scaling algorithm to use.
	// Valid values are: "nearestneighbor", "catmullrom", "bilinear", "approxbilinear"
	Interpolator string `env:"INTERPOLATOR" default:"catmullrom"`

	// MaxImageSize is the maximum allowed file size for uploaded product images in bytes.
	// Default is 20MB.
	MaxImageSize int64 `env:"MAX_IMAGE_SIZE" default:"20971520"`
}
