package pcb

// Board is the routed copper of a KiCad PCB. Footprints, zones and drawings
// are not loaded.
type Board struct {
	Version   int     // File format version
	Generator string  // e.g. "pcbnew"
	General   General // General board properties
	Layers    []Layer
	Nets      []Net
	Tracks    []Track    // Straight (segment ...) items in file order
	Arcs      []ArcTrack // Curved (arc ...) track items in file order
}

// General contains general board properties
type General struct {
	Thickness float64 // Board thickness in mm
	Title     string
}

// Track is a straight copper segment
type Track struct {
	Start  Position
	End    Position
	Width  float64 // mm
	Layer  string
	Net    *Net // nil when unconnected
	Locked bool
	Line   int // source line of the (segment ...) node
}

// ArcTrack is a curved copper track drawn through three points
type ArcTrack struct {
	Start Position
	Mid   Position
	End   Position
	Width float64
	Layer string
	Net   *Net
	Line  int
}

// NetName returns the track's net name, or "" when unconnected
func (t Track) NetName() string {
	if t.Net == nil {
		return ""
	}
	return t.Net.Name
}

// Connected reports whether the track belongs to an electrical net
func (t Track) Connected() bool {
	return t.Net != nil && !IsUnconnected(t.Net.Number)
}

// NetName returns the arc's net name, or "" when unconnected
func (a ArcTrack) NetName() string {
	if a.Net == nil {
		return ""
	}
	return a.Net.Name
}

// LayerMap indexes the board's layer table
func (b *Board) LayerMap() *LayerMap {
	return NewLayerMap(b.Layers)
}
