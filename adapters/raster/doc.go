// Package qrraster rasterizes qrcode drawings into PNG or JPEG images using
// golang.org/x/image/vector. Logos are scaled with Catmull-Rom resampling.
package qrraster
