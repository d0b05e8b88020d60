// Package certgen renders course completion certificates as JPEG images.
package certgen

import (
	"fmt"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	certWidth  = 2000
	certHeight = 1414
)

var (
	borderColor    = color.RGBA{R: 70, G: 130, B: 180, A: 255}  // steel blue
	highlightColor = color.RGBA{R: 240, G: 248, B: 255, A: 255} // alice blue
	codeColor      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

type Renderer struct {
	outputDir string
	siteName  string

	titleFace font.Face
	nameFace  font.Face
	textFace  font.Face
	smallFace font.Face
}

func NewRenderer(fontPath, outputDir, siteName string) (*Renderer, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("could not read certificate font: %w", err)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse certificate font: %w", err)
	}

	face := func(size float64) font.Face {
		return truetype.NewFace(ttf, &truetype.Options{Size: size})
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	return &Renderer{
		outputDir: outputDir,
		siteName:  siteName,
		titleFace: face(80),
		nameFace:  face(70),
		textFace:  face(50),
		smallFace: face(30),
	}, nil
}

// Render draws the certificate and writes certificate_<code>.jpg under the
// output directory, returning the local file path.
func (r *Renderer) Render(studentName, courseTitle string, score float64, issueDate time.Time, verificationCode string) (string, error) {
	dc := gg.NewContext(certWidth, certHeight)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// border and divider
	dc.SetColor(borderColor)
	dc.SetLineWidth(10)
	dc.DrawRectangle(50, 50, certWidth-100, certHeight-100)
	dc.Stroke()
	dc.SetLineWidth(5)
	dc.DrawLine(certWidth/4, 450, 3*certWidth/4, 450)
	dc.Stroke()

	dc.SetFontFace(r.titleFace)
	dc.SetColor(borderColor)
	dc.DrawStringAnchored("CERTIFICATE OF COMPLETION", certWidth/2, 350, 0.5, 0.5)

	dc.SetFontFace(r.textFace)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored("This is to certify that", certWidth/2, 520, 0.5, 0.5)

	// highlighted student name
	dc.SetFontFace(r.nameFace)
	nameW, nameH := dc.MeasureString(studentName)
	const pad = 20
	dc.SetColor(highlightColor)
	dc.DrawRectangle(certWidth/2-nameW/2-pad, 660-nameH/2-pad, nameW+2*pad, nameH+2*pad)
	dc.Fill()
	dc.SetColor(borderColor)
	dc.DrawStringAnchored(studentName, certWidth/2, 660, 0.5, 0.5)

	dc.SetFontFace(r.textFace)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored("has successfully completed the course", certWidth/2, 790, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%q", courseTitle), certWidth/2, 880, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("with a score of %.0f%%", score), certWidth/2, 990, 0.5, 0.5)

	dc.SetFontFace(r.smallFace)
	dc.DrawStringAnchored(fmt.Sprintf("Issued by %s on %s", r.siteName, issueDate.Format("January 2, 2006")), certWidth/2, 1110, 0.5, 0.5)

	dc.SetColor(codeColor)
	dc.DrawStringAnchored("Verification Code: "+verificationCode, certWidth/2, 1200, 0.5, 0.5)

	path := filepath.Join(r.outputDir, fmt.Sprintf("certificate_%s.jpg", verificationCode))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := jpeg.Encode(out, dc.Image(), &jpeg.Options{Quality: 90}); err != nil {
		return "", err
	}
	return path, nil
}
