package vehicle

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const maxVehicleCode = 2147483647

// NumericFields are the record fields the ingestion side stores as numbers.
var NumericFields = []string{
	"AllStateFontColorIndex", "BranchCD", "CurrentWorkCD", "DataFilterType",
	"DispFlag", "DriverCD", "GPSDirection", "GPSEnable", "GPSLatitude",
	"GPSLongitude", "GPSSatelliteNum", "OperationState", "ReciveEventType",
	"RecivePacketType", "ReciveWorkCD", "Revo", "Speed", "SubDriverCD",
	"TempState",
}

var digitsRe = regexp.MustCompile(`\d+`)

// Normalizer rewrites source records into the shape the sink ingests:
// numeric strings become numbers, VehicleCD is derived from VehicleName
// and is unique within a batch, DataDateTime loses its century prefix.
type Normalizer struct {
	// DatePrefix, when set, keeps only records whose DataDateTime contains it.
	DatePrefix string
}

// Transform implements relay.Transformer.
func (n Normalizer) Transform(p Payload) (Payload, error) {
	records, err := p.Records()
	if err != nil {
		return nil, fmt.Errorf("payload is not an array: %w", err)
	}

	used := make(map[int]struct{}, len(records))
	out := make([]json.RawMessage, 0, len(records))
	for _, raw := range records {
		var record map[string]interface{}
		if err := json.Unmarshal(raw, &record); err != nil || record == nil {
			if n.DatePrefix == "" {
				out = append(out, raw)
			}
			continue
		}
		if n.DatePrefix != "" {
			dt, _ := record["DataDateTime"].(string)
			if !strings.Contains(dt, n.DatePrefix) {
				continue
			}
		}

		for _, field := range NumericFields {
			if v, ok := record[field]; ok {
				record[field] = NumberOrZero(v)
			}
		}

		name, _ := record["VehicleName"].(string)
		code := VehicleCode(name)
		for base, offset := code, 0; ; offset++ {
			code = base + offset
			if _, ok := used[code]; !ok {
				break
			}
		}
		used[code] = struct{}{}
		record["VehicleCD"] = code

		if v, ok := record["DataDateTime"]; ok {
			s, _ := v.(string)
			if dt := FormatDateTime(s); dt != "" {
				record["DataDateTime"] = dt
			} else {
				record["DataDateTime"] = nil
			}
		}

		b, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("marshal normalized record: %w", err)
		}
		out = append(out, b)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal normalized payload: %w", err)
	}
	return Payload(b), nil
}

// NumberOrZero converts a string field to a number. Empty and "<nil>"
// values and strings that do not parse become 0.
func NumberOrZero(v interface{}) interface{} {
	if v == nil {
		return 0
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	if s == "" || s == "<nil>" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// VehicleCode derives a numeric vehicle code from the digits in a vehicle
// name, falling back to a hash of the name when it has no digits.
func VehicleCode(name string) int {
	if name == "" {
		return 0
	}
	if matches := digitsRe.FindAllString(name, -1); len(matches) > 0 {
		var code int64
		for _, d := range strings.Join(matches, "") {
			code = (code*10 + int64(d-'0')) % maxVehicleCode
		}
		return int(code)
	}
	sum := md5.Sum([]byte(name))
	h, _ := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 64)
	return int(h % maxVehicleCode)
}

// FormatDateTime strips the century from a "2025/09/29 ..." timestamp; the
// sink prepends it again.
func FormatDateTime(dt string) string {
	if dt == "" || dt == "<nil>" {
		return ""
	}
	return strings.TrimPrefix(dt, "20")
}
