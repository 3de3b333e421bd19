package driver

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// WS281x bit rate in kHz; the SPI clock runs at 3x plus margin for
// the NRZ expansion.
const refreshRate physic.Frequency = 800

// NRZ drives a WS281x strip through periph's nrzled SPI encoder. When
// no SPI port is available (development machines) it falls back to an
// ANSI terminal drawer so the same binary runs everywhere.
type NRZ struct {
	drawer     display.Drawer
	count      int
	brightness float64
	whiteCap   float64
	img        *image.NRGBA
	spi        bool
}

// NewNRZ opens the named SPI port ("" for the first available) and
// prepares the strip. brightness is the global output scalar in
// (0,1]; whiteCap in (0,1) limits any single LED's summed channels.
func NewNRZ(port string, count int, brightness, whiteCap float64) (*NRZ, error) {
	if count <= 0 {
		return nil, fmt.Errorf("driver: invalid LED count %d", count)
	}
	if brightness <= 0 || brightness > 1 {
		brightness = 1
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("driver: host init: %w", err)
	}

	d := &NRZ{
		count:      count,
		brightness: brightness,
		whiteCap:   whiteCap,
		img:        image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}

	p, err := spireg.Open(port)
	if err != nil {
		// No SPI on this machine; draw to the console instead.
		d.drawer = screen.New(100)
		return d, nil
	}

	dev, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      ((refreshRate * 3) + 100) * physic.KiloHertz,
	})
	if err != nil {
		return nil, fmt.Errorf("driver: nrzled: %w", err)
	}
	if err := dev.Halt(); err != nil {
		return nil, fmt.Errorf("driver: halt: %w", err)
	}
	d.drawer = dev
	d.spi = true
	return d, nil
}

// IsSPI reports whether real hardware is attached (false means the
// terminal fallback is active).
func (d *NRZ) IsSPI() bool { return d.spi }

func (d *NRZ) Write(rgb []byte) error {
	if len(rgb) != d.count*3 {
		return fmt.Errorf("driver: rgb length %d does not match count %d", len(rgb), d.count)
	}
	applyWhiteCap(rgb, d.whiteCap)
	for i := 0; i < d.count; i++ {
		d.img.SetNRGBA(i, 0, color.NRGBA{
			R: scaleByte(rgb[i*3+0], d.brightness),
			G: scaleByte(rgb[i*3+1], d.brightness),
			B: scaleByte(rgb[i*3+2], d.brightness),
			A: 255,
		})
	}
	return d.drawer.Draw(d.drawer.Bounds(), d.img, image.Point{})
}

func (d *NRZ) Close() error {
	if d.drawer == nil {
		return nil
	}
	err := d.drawer.Halt()
	d.drawer = nil
	return err
}
