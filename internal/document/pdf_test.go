package document_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/frahmantamala/church-management/internal/document"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PDFRenderer", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeBackground := func(name string) {
		img := image.NewRGBA(image.Rect(0, 0, 20, 28))
		for x := 0; x < 20; x++ {
			for y := 0; y < 28; y++ {
				img.Set(x, y, color.RGBA{R: 240, G: 230, B: 200, A: 255})
			}
		}
		f, err := os.Create(filepath.Join(dir, name))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		Expect(png.Encode(f, img)).To(Succeed())
	}

	It("fails when the assets directory is missing", func() {
		_, err := document.NewPDFRenderer(filepath.Join(dir, "nope"), "")
		Expect(err).To(HaveOccurred())
	})

	It("reports which assets exist", func() {
		writeBackground("carta.png")
		r, err := document.NewPDFRenderer(dir, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(r.HasAsset("carta.png")).To(BeTrue())
		Expect(r.HasAsset("certificado_batismo.jpg")).To(BeFalse())
	})

	It("renders every block kind with accents and a background", func() {
		writeBackground("carta.png")
		r, err := document.NewPDFRenderer(dir, "Helvetica")
		Expect(err).NotTo(HaveOccurred())

		out, err := r.Render(document.Document{
			Kind:        document.KindInvitation,
			Title:       "Carta Convite",
			Orientation: document.OrientationPortrait,
			Background:  "carta.png",
			Blocks: []document.Block{
				{Kind: document.BlockTitle, Text: "CARTA CONVITE"},
				{Kind: document.BlockSubtitle, Text: "Congregação São João"},
				{Kind: document.BlockSpacer},
				{Kind: document.BlockParagraph, Text: "Convidamos a família à celebração."},
				{Kind: document.BlockQuote, Text: "Sede firmes"},
				{Kind: document.BlockBullet, Text: "Pr. André"},
				{Kind: document.BlockSignature, Text: "JOÃO GOMES DA SILVA"},
				{Kind: document.BlockPlaced, Text: "04", X: 40, Y: 120},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out[:4])).To(Equal("%PDF"))
	})

	It("renders landscape pages", func() {
		r, err := document.NewPDFRenderer(dir, "")
		Expect(err).NotTo(HaveOccurred())
		out, err := r.Render(document.Document{
			Kind:        document.KindBaptismCertificate,
			Orientation: document.OrientationLandscape,
			Blocks:      []document.Block{{Kind: document.BlockTitle, Text: "CERTIFICADO DE BATISMO"}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).NotTo(BeEmpty())
	})
})
