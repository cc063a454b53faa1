package domain

// Fallbacks used when neither the catalog nor the upstream line record
// describes a line.
const (
	DefaultServiceType = "Servicio Especial"
	DefaultServiceName = "EXPRESO"
)

// DefaultAmenities returns the amenities assumed for unknown lines.
func DefaultAmenities() []string {
	return []string{"ac", "bathroom"}
}

// LineInfo is the catalog entry of one bus line.
type LineInfo struct {
	ServiceType string
	Amenities   []string
}

// LineCatalog maps upstream line ids to display information.
// It is built once at startup and never mutated afterwards.
type LineCatalog struct {
	lines map[string]LineInfo
}

// NewLineCatalog builds a catalog from the built-in lines, with overrides
// replacing or extending them. Partial overrides keep the built-in values
// for the fields they leave empty.
func NewLineCatalog(overrides map[string]LineInfo) *LineCatalog {
	lines := make(map[string]LineInfo, len(builtinLines)+len(overrides))
	for id, info := range builtinLines {
		lines[id] = info
	}
	for id, info := range overrides {
		base := lines[id]
		if info.ServiceType != "" {
			base.ServiceType = info.ServiceType
		}
		if len(info.Amenities) > 0 {
			base.Amenities = info.Amenities
		}
		lines[id] = base
	}
	return &LineCatalog{lines: lines}
}

// ServiceType resolves the service type of a line:
// catalog, then the upstream line record, then DefaultServiceType.
func (c *LineCatalog) ServiceType(lineID string, line *VendorLine) string {
	if info, ok := c.lines[lineID]; ok && info.ServiceType != "" {
		return info.ServiceType
	}
	if line != nil && line.ServiceType != "" {
		return line.ServiceType
	}
	return DefaultServiceType
}

// Amenities resolves the amenity tags of a line with the same precedence as
// ServiceType. The returned slice is a copy.
func (c *LineCatalog) Amenities(lineID string, line *VendorLine) []string {
	if info, ok := c.lines[lineID]; ok && len(info.Amenities) > 0 {
		return append([]string(nil), info.Amenities...)
	}
	if line != nil && line.Services != nil {
		return append([]string{}, line.Services...)
	}
	return DefaultAmenities()
}

// Len returns the number of lines in the catalog.
func (c *LineCatalog) Len() int {
	return len(c.lines)
}

var builtinLines = map[string]LineInfo{
	"premium-plus":             {ServiceType: "Preferencial de Lujo", Amenities: []string{"wifi", "ac", "bathroom", "tv", "usb", "personal_screen"}},
	"premium-plus-extra":       {ServiceType: "Preferencial de Lujo", Amenities: []string{"wifi", "ac", "bathroom", "tv", "usb", "personal_screen", "snacks"}},
	"premium-tech":             {ServiceType: "Preferencial de Lujo", Amenities: []string{"wifi", "ac", "bathroom", "tv", "usb", "entertainment", "gps"}},
	"premium":                  {ServiceType: "Servicio Especial", Amenities: []string{"wifi", "ac", "bathroom", "tv", "usb"}},
	"brasilia":                 {ServiceType: "Servicio Regular", Amenities: []string{"ac", "bathroom"}},
	"arauca-estelar":           {ServiceType: "Servicio Especial", Amenities: []string{"wifi", "ac", "bathroom", "tv", "usb"}},
	"arauca-super-estelar-vip": {ServiceType: "Servicio VIP", Amenities: []string{"wifi", "ac", "bathroom", "tv", "usb", "snacks"}},
	"gaviota-preferencial":     {ServiceType: "Preferencial de Lujo", Amenities: []string{"wifi", "ac", "bathroom", "tv"}},
	"gaviota-diamante":         {ServiceType: "Servicio VIP", Amenities: []string{"wifi", "ac", "bathroom", "tv", "usb", "personal_screen"}},
	"caribe-express":           {ServiceType: "Servicio Especial", Amenities: []string{"wifi", "ac", "bathroom", "tv"}},
	"caribe-express-plus":      {ServiceType: "Preferencial de Lujo", Amenities: []string{"wifi", "ac", "bathroom", "tv", "usb"}},
	"caribe-express-brasilia":  {ServiceType: "Servicio Especial", Amenities: []string{"wifi", "ac", "bathroom", "tv"}},
	"servicio-preferencial":    {ServiceType: "Preferencial de Lujo", Amenities: []string{"wifi", "ac", "bathroom", "tv"}},
	"buseton-caribe-express":   {ServiceType: "Servicio Especial", Amenities: []string{"wifi", "ac", "bathroom", "tv"}},
	"buses-techo-azul":         {ServiceType: "Servicio Especial", Amenities: []string{"wifi", "ac", "bathroom", "tv"}},
}
