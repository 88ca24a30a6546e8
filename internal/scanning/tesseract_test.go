package scanning

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	name string
	args []string
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.name = name
	r.args = args
	return r.stdout, r.stderr, r.err
}

func pngBytes() []byte {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

var _ = Describe("Tesseract", func() {
	var runner *stubRunner

	BeforeEach(func() {
		runner = &stubRunner{stdout: []byte("Warung Makan Sederhana\nTOTAL 30,000")}
	})

	It("should return the transcript from the binary", func() {
		scanner := NewTesseractWithRunner("tesseract", "eng+ind", runner)

		text, err := scanner.Scan(pngBytes(), "image/png")
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Warung Makan Sederhana\nTOTAL 30,000"))
	})

	It("should pass the configured languages", func() {
		scanner := NewTesseractWithRunner("tesseract", "ind", runner)

		_, err := scanner.Scan(pngBytes(), "image/png")
		Expect(err).NotTo(HaveOccurred())
		Expect(runner.name).To(Equal("tesseract"))
		Expect(runner.args).To(ContainElement("-l"))
		Expect(runner.args).To(ContainElement("ind"))
	})

	It("should default the binary and languages", func() {
		scanner := NewTesseract("", "")

		Expect(scanner.binary).To(Equal("tesseract"))
		Expect(scanner.languages).To(Equal("eng+ind"))
	})

	It("should surface stderr when the binary fails", func() {
		runner.err = errors.New("exit status 1")
		runner.stderr = []byte("Error opening data file ind.traineddata")
		scanner := NewTesseractWithRunner("tesseract", "ind", runner)

		_, err := scanner.Scan(pngBytes(), "image/png")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("running tesseract"))
		Expect(err.Error()).To(ContainSubstring("ind.traineddata"))
	})

	It("should reject data that is not an image", func() {
		scanner := NewTesseractWithRunner("tesseract", "eng+ind", runner)

		_, err := scanner.Scan([]byte("not an image"), "image/jpeg")
		Expect(err).To(HaveOccurred())
	})
})
