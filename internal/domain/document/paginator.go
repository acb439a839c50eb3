// Package document contiene la geometría pura de paginación: cómo repartir una
// superficie visual alta (la factura renderizada como imagen) en páginas A4.
package document

import "math"

// Geometría de página usada por la representación impresa. El alto útil de
// corte es 295 mm (no los 297 mm del A4 físico) para conservar el recorte del
// comportamiento de referencia.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 295.0
)

// RasterImage es la superficie capturada: dimensiones en píxeles y los bytes
// PNG listos para incrustar en el documento.
type RasterImage struct {
	WidthPx  int
	HeightPx int
	PNG      []byte
}

// PageSlice describe dónde colocar la imagen fuente dentro de una página:
// siempre a ancho completo, con un desplazamiento vertical cada vez más
// negativo para que cada página revele una franja distinta.
type PageSlice struct {
	OffsetYMM   float64
	ImgWidthMM  float64
	ImgHeightMM float64
}

// Paginate calcula las páginas necesarias para una superficie de srcWidth x
// srcHeight píxeles. El ancho se normaliza al ancho físico de página y el alto
// escala proporcionalmente: imgH = srcH * pageW / srcW.
//
// Emite max(1, ceil(imgH/pageH)) páginas; la página i coloca la imagen en
// offset -i*pageH. Para srcWidth o srcHeight no positivos devuelve una sola
// página con la imagen en el origen.
func Paginate(srcWidth, srcHeight int) []PageSlice {
	if srcWidth <= 0 || srcHeight <= 0 {
		return []PageSlice{{ImgWidthMM: PageWidthMM}}
	}

	imgH := float64(srcHeight) * PageWidthMM / float64(srcWidth)
	n := int(math.Ceil(imgH / PageHeightMM))
	if n < 1 {
		n = 1
	}

	pages := make([]PageSlice, n)
	for i := range pages {
		pages[i] = PageSlice{
			OffsetYMM:   -float64(i) * PageHeightMM,
			ImgWidthMM:  PageWidthMM,
			ImgHeightMM: imgH,
		}
	}
	return pages
}
