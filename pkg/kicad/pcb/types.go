package pcb

// Position is a point on the board in millimeters, KiCad orientation
// (x to the right, y downward).
type Position struct {
	X float64
	Y float64
}

// Layer represents a PCB layer
type Layer struct {
	Number int    // Layer ordinal
	Name   string // e.g. "F.Cu", "B.Cu", "F.SilkS"
	Type   string // e.g. "signal", "power", "user"
}

// IsCopper reports whether tracks on the layer carry current
func (l Layer) IsCopper() bool {
	return l.Type == "signal" || l.Type == "power" || l.Type == "mixed" || l.Type == "jumper"
}

// Net represents an electrical net
type Net struct {
	Number int
	Name   string
}

// LayerMap looks layers up by number or name
type LayerMap struct {
	byNumber map[int]*Layer
	byName   map[string]*Layer
}

// NewLayerMap indexes layers. The returned map points into the slice.
func NewLayerMap(layers []Layer) *LayerMap {
	lm := &LayerMap{
		byNumber: make(map[int]*Layer, len(layers)),
		byName:   make(map[string]*Layer, len(layers)),
	}
	for i := range layers {
		layer := &layers[i]
		lm.byNumber[layer.Number] = layer
		lm.byName[layer.Name] = layer
	}
	return lm
}

func (lm *LayerMap) GetByName(name string) (*Layer, bool) {
	layer, ok := lm.byName[name]
	return layer, ok
}

func (lm *LayerMap) GetByNumber(num int) (*Layer, bool) {
	layer, ok := lm.byNumber[num]
	return layer, ok
}

// IsCopperLayer reports whether name is a declared copper layer. Boards
// without a layer table fall back to KiCad's "*.Cu" naming.
func (lm *LayerMap) IsCopperLayer(name string) bool {
	if len(lm.byName) == 0 {
		return len(name) > 3 && name[len(name)-3:] == ".Cu"
	}
	layer, ok := lm.byName[name]
	return ok && layer.IsCopper()
}

// NetMap looks nets up by number or name
type NetMap struct {
	byNumber map[int]*Net
	byName   map[string]*Net
}

// NewNetMap indexes nets. Unnamed nets are only reachable by number.
func NewNetMap(nets []Net) *NetMap {
	nm := &NetMap{
		byNumber: make(map[int]*Net, len(nets)),
		byName:   make(map[string]*Net, len(nets)),
	}
	for i := range nets {
		net := &nets[i]
		nm.byNumber[net.Number] = net
		if net.Name != "" {
			nm.byName[net.Name] = net
		}
	}
	return nm
}

func (nm *NetMap) GetByName(name string) (*Net, bool) {
	net, ok := nm.byName[name]
	return net, ok
}

func (nm *NetMap) GetByNumber(num int) (*Net, bool) {
	net, ok := nm.byNumber[num]
	return net, ok
}

// IsUnconnected reports whether num is KiCad's reserved "no net" number
func IsUnconnected(num int) bool {
	return num == 0
}
