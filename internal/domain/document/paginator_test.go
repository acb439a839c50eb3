package document_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/domain/document"
)

// TestPaginate_NumeroDePaginas valida la propiedad central:
// páginas emitidas = ceil(altoEscalado / altoPagina), mínimo 1.
func TestPaginate_NumeroDePaginas(t *testing.T) {
	cases := []struct {
		name       string
		srcW, srcH int
	}{
		{"contenido corto, una página", 1240, 800},
		{"dos páginas", 1240, 3000},
		{"varias páginas", 620, 5000},
		{"múltiplo exacto del alto de página", 210, 590}, // imgH = 590 → exactamente 2
		{"un píxel de alto", 1240, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pages := document.Paginate(tc.srcW, tc.srcH)

			imgH := float64(tc.srcH) * document.PageWidthMM / float64(tc.srcW)
			want := int(math.Ceil(imgH / document.PageHeightMM))
			if want < 1 {
				want = 1
			}
			assert.Len(t, pages, want)
		})
	}
}

func TestPaginate_MinimoUnaPagina(t *testing.T) {
	pages := document.Paginate(1240, 10)
	require.Len(t, pages, 1)
	assert.Equal(t, 0.0, pages[0].OffsetYMM, "la primera página empieza en el origen")
}

// TestPaginate_OffsetsProgresivos: la página i desplaza la imagen -i*altoPagina
// para revelar la franja siguiente.
func TestPaginate_OffsetsProgresivos(t *testing.T) {
	pages := document.Paginate(1240, 6000)
	require.Greater(t, len(pages), 2)

	for i, p := range pages {
		assert.InDelta(t, -float64(i)*document.PageHeightMM, p.OffsetYMM, 1e-9)
	}
}

// TestPaginate_Escala: el ancho se normaliza a 210 mm y el alto escala
// proporcionalmente (imgH = srcH * 210 / srcW).
func TestPaginate_Escala(t *testing.T) {
	pages := document.Paginate(1000, 2000)
	require.NotEmpty(t, pages)

	assert.InDelta(t, document.PageWidthMM, pages[0].ImgWidthMM, 1e-9)
	assert.InDelta(t, 2000.0*210.0/1000.0, pages[0].ImgHeightMM, 1e-9)
}

// TestPaginate_DimensionesInvalidas: superficies degeneradas no deben producir
// pánico ni cero páginas.
func TestPaginate_DimensionesInvalidas(t *testing.T) {
	assert.Len(t, document.Paginate(0, 0), 1)
	assert.Len(t, document.Paginate(-5, 100), 1)
}
