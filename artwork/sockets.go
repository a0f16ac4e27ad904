package artwork

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/devices-lab/busrouter/geom"
)

// SentinelDiameter marks a flash position as a socket identifier.
const SentinelDiameter = 0.00999

const (
	minCharIndex = 1
	maxCharIndex = 99
	minCharCode  = 32
	maxCharCode  = 127
)

// ExtractSockets decodes net-name-tagged socket locations from artwork
// flashes.
//
// Each socket position carries one flash with the sentinel diameter and one
// flash per net-name character with a five-decimal diameter 0.IIPPP (for
// example 0.01071), where II is the 1-based character index and PPP the
// ASCII code. Positions
// without a sentinel are ignored; unrecognized diameters at a socket
// position are skipped; a position whose diameters decode to no characters
// is dropped with a warning.
//
// Returned positions are rounded to the resolution grid.
func ExtractSockets(lines []Line, resolution float64) map[string][]geom.Point {
	type pos struct{ x, y float64 }

	diameters := map[pos][]float64{}
	var order []pos
	for _, l := range lines {
		if !l.IsFlash() {
			continue
		}
		p := pos{l.X1, l.Y1}
		if _, seen := diameters[p]; !seen {
			order = append(order, p)
		}
		diameters[p] = append(diameters[p], l.Diameter)
	}

	sockets := map[string][]geom.Point{}
	for _, p := range order {
		dlist := diameters[p]

		hasSentinel := false
		for _, d := range dlist {
			if math.Abs(d-SentinelDiameter) < 1e-6 {
				hasSentinel = true
				break
			}
		}
		if !hasSentinel {
			continue
		}

		type char struct {
			index int
			c     byte
		}
		var decoded []char
		seenIndices := map[int]bool{}

		for _, d := range dlist {
			index, code, ok := decodeDiameter(d)
			if !ok {
				continue
			}
			if seenIndices[index] {
				continue
			}
			seenIndices[index] = true
			decoded = append(decoded, char{index: index, c: byte(code)})
		}

		if len(decoded) == 0 {
			log.Printf("warning: socket marker at (%g, %g) has no decodable net name, dropping", p.x, p.y)
			continue
		}

		sort.Slice(decoded, func(i, j int) bool {
			return decoded[i].index < decoded[j].index
		})

		var name strings.Builder
		for _, c := range decoded {
			name.WriteByte(c.c)
		}

		socket := geom.Pt(
			geom.RoundTo(p.x, resolution),
			geom.RoundTo(p.y, resolution),
		)
		sockets[name.String()] = append(sockets[name.String()], socket)
	}

	return sockets
}

// decodeDiameter splits a character diameter 0.IIPPP into its index and
// ASCII code. The sentinel and any diameter outside the encoding are
// rejected.
func decodeDiameter(d float64) (index, code int, ok bool) {
	s := strconv.FormatFloat(d, 'f', 5, 64)
	if s == "0.00999" {
		return 0, 0, false
	}
	if !strings.HasPrefix(s, "0.") || len(s) != 7 {
		return 0, 0, false
	}

	index, err := strconv.Atoi(s[2:4])
	if err != nil {
		return 0, 0, false
	}
	code, err = strconv.Atoi(s[4:7])
	if err != nil {
		return 0, 0, false
	}
	if index < minCharIndex || index > maxCharIndex ||
		code < minCharCode || code > maxCharCode {
		return 0, 0, false
	}
	return index, code, true
}

// SocketDiameters synthesizes the aperture diameters that encode a net name
// at a socket position: the sentinel followed by one diameter per character.
// It is the inverse of the decoding that ExtractSockets performs.
func SocketDiameters(net string) ([]float64, error) {
	if len(net) < minCharIndex || len(net) > maxCharIndex {
		return nil, fmt.Errorf("net name %q must have between %d and %d characters",
			net, minCharIndex, maxCharIndex)
	}

	diameters := []float64{SentinelDiameter}
	for i := 0; i < len(net); i++ {
		c := net[i]
		if c < minCharCode || c > maxCharCode {
			return nil, fmt.Errorf("net name %q contains non-encodable character %q", net, c)
		}
		d, err := strconv.ParseFloat(fmt.Sprintf("0.%02d%03d", i+1, c), 64)
		if err != nil {
			return nil, err
		}
		diameters = append(diameters, d)
	}
	return diameters, nil
}
