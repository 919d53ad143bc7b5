package Elevation

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"time"

	"Oryx/Config"

	"github.com/disintegration/imaging"
)

// TileZoom is the fixed zoom level used for terrain sampling. Zoom 14 gives
// roughly 2.4 m per pixel at these latitudes, plenty for a clearance estimate.
const TileZoom = 14

const tileSize = 256

// TileDecoder extracts the elevation encoded at one pixel of a raw
// terrain-RGB tile. Kept as an interface so the sampler degrades to regional
// estimates in environments without a usable raster decoder.
type TileDecoder interface {
	ElevationAt(tile []byte, px, py int) (float64, error)
}

// RasterDecoder decodes terrain-RGB tiles with a real image decoder.
type RasterDecoder struct{}

func (RasterDecoder) ElevationAt(tile []byte, px, py int) (float64, error) {
	img, err := imaging.Decode(bytes.NewReader(tile))
	if err != nil {
		return 0, err
	}
	bounds := img.Bounds()
	if px < 0 || py < 0 || px >= bounds.Dx() || py >= bounds.Dy() {
		return 0, fmt.Errorf("pixel %d,%d outside tile bounds", px, py)
	}
	r, g, b, _ := img.At(bounds.Min.X+px, bounds.Min.Y+py).RGBA()
	return DecodeElevation(uint8(r>>8), uint8(g>>8), uint8(b>>8)), nil
}

// DecodeElevation applies the terrain-RGB formula: the three channels form a
// 24-bit value in 0.1 m steps offset by -10000 m.
func DecodeElevation(r, g, b uint8) float64 {
	return -10000 + (float64(r)*65536+float64(g)*256+float64(b))*0.1
}

// TileIndex maps a WGS84 point onto slippy-map tile coordinates and the pixel
// offset within that tile. Longitude scales linearly, latitude through the
// Mercator inverse-tangent transform.
func TileIndex(lng, lat float64, zoom int) (tileX, tileY, px, py int) {
	n := math.Exp2(float64(zoom))
	x := (lng + 180) / 360 * n
	latRad := lat * math.Pi / 180
	y := (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n

	tileX = int(math.Floor(x))
	tileY = int(math.Floor(y))
	px = int(math.Floor((x - float64(tileX)) * tileSize))
	py = int(math.Floor((y - float64(tileY)) * tileSize))
	return
}

// Sampler estimates ground elevation at a point from terrain-RGB tiles,
// falling back to coarse regional constants when the tile cannot be fetched
// or decoded. The fallback means callers always get an estimate; treat the
// result as approximate either way.
type Sampler struct {
	BaseURL          string
	Token            string
	HTTP             *http.Client
	Decoder          TileDecoder
	Regions          []Config.RegionElevation
	DefaultElevation float64
}

func NewSampler(cfg Config.AppConfig) *Sampler {
	return &Sampler{
		BaseURL:          cfg.TerrainBaseURL,
		Token:            cfg.MapboxToken,
		HTTP:             &http.Client{Timeout: 10 * time.Second},
		Decoder:          RasterDecoder{},
		Regions:          cfg.Tariff.Regions,
		DefaultElevation: cfg.Tariff.DefaultElevation,
	}
}

// Elevation returns the estimated ground elevation in meters at a point.
// Transient fetch trouble and decode failures degrade to the regional
// estimate; only a provider rejecting our credentials reports not-ok, since
// no amount of falling back makes that data trustworthy.
func (s *Sampler) Elevation(lng, lat float64) (float64, bool) {
	tileX, tileY, px, py := TileIndex(lng, lat, TileZoom)

	tile, err := s.fetchTile(tileX, tileY)
	if err == errProviderRejected {
		log.Printf("Terrain tile provider rejected request for %d/%d/%d", TileZoom, tileX, tileY)
		return 0, false
	}
	if err != nil {
		log.Printf("Terrain tile %d/%d/%d fetch failed: %v", TileZoom, tileX, tileY, err)
		return s.RegionalEstimate(lng, lat), true
	}

	elevation, err := s.Decoder.ElevationAt(tile, px, py)
	if err != nil {
		log.Printf("Terrain tile %d/%d/%d decode failed: %v", TileZoom, tileX, tileY, err)
		return s.RegionalEstimate(lng, lat), true
	}
	return elevation, true
}

// RegionalEstimate returns the coarse bounding-box constant for the point,
// or the configured countrywide default.
func (s *Sampler) RegionalEstimate(lng, lat float64) float64 {
	for _, region := range s.Regions {
		if lng >= region.MinLng && lng <= region.MaxLng &&
			lat >= region.MinLat && lat <= region.MaxLat {
			return region.Elevation
		}
	}
	return s.DefaultElevation
}

var errProviderRejected = fmt.Errorf("terrain provider rejected credentials")

func (s *Sampler) fetchTile(tileX, tileY int) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%d/%d/%d.pngraw?access_token=%s",
		s.BaseURL, TileZoom, tileX, tileY, url.QueryEscape(s.Token))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Oryx/1.0")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errProviderRejected
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile provider returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
