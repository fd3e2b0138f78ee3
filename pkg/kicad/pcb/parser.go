package pcb

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/magwrap/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version (6.0 = 20211014)
const MinSupportedVersion = 20211014

// ParseFile reads and parses a KiCad board file
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad board from an io.Reader
func Parse(r io.Reader) (*Board, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root, ok := sexps[0].(*kicadsexp.List)
	if !ok || root.Key() != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected (kicad_pcb ...) at top level")
	}

	version, generator, err := parseHeader(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	board := &Board{
		Version:   version,
		Generator: generator,
	}

	if generalNode, found := findNode(root, "general"); found {
		general, err := parseGeneral(generalNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse general section: %w", err)
		}
		board.General = *general
	}

	if layersNode, found := findNode(root, "layers"); found {
		layers, err := parseLayers(layersNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layers section: %w", err)
		}
		board.Layers = layers
	}

	nets, err := parseNets(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nets: %w", err)
	}
	board.Nets = nets
	netMap := NewNetMap(board.Nets)

	tracks, err := parseTracks(root, netMap)
	if err != nil {
		return nil, err
	}
	board.Tracks = tracks

	arcs, err := parseArcTracks(root, netMap)
	if err != nil {
		return nil, err
	}
	board.Arcs = arcs

	return board, nil
}

// parseHeader extracts version and generator information from the root node
// Expected format: (kicad_pcb (version 20221018) (generator pcbnew) ...)
func parseHeader(root *kicadsexp.List) (version int, generator string, err error) {
	versionNode, found := findNode(root, "version")
	if !found {
		return 0, "", fmt.Errorf("missing required 'version' field")
	}

	ver, err := getInt(versionNode, 1)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}
	if ver < MinSupportedVersion {
		return 0, "", fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}

	gen := "unknown"
	if hostNode, found := findNode(root, "host"); found {
		// Older format: (host pcbnew "(6.0.0)")
		if name, err := getString(hostNode, 1); err == nil {
			gen = name
		}
	} else if genNode, found := findNode(root, "generator"); found {
		if name, err := getString(genNode, 1); err == nil {
			gen = name
		}
	}

	return ver, gen, nil
}

// parseGeneral extracts general board properties
// Expected format: (general (thickness 1.6) ...)
func parseGeneral(node *kicadsexp.List) (*General, error) {
	general := &General{}

	if thicknessNode, found := findNode(node, "thickness"); found {
		thickness, err := getFloat(thicknessNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse thickness: %w", err)
		}
		general.Thickness = thickness
	}

	if titleNode, found := findNode(node, "title"); found {
		if title, err := getString(titleNode, 1); err == nil {
			general.Title = title
		}
	}

	return general, nil
}

// parseLayers extracts layer definitions
// Expected format: (layers (0 "F.Cu" signal) (31 "B.Cu" signal) ...)
func parseLayers(node *kicadsexp.List) ([]Layer, error) {
	var layers []Layer
	for _, item := range node.Items[1:] {
		layerNode, ok := item.(*kicadsexp.List)
		if !ok {
			continue
		}

		number, err := getInt(layerNode, 0)
		if err != nil {
			return nil, fmt.Errorf("line %d: failed to parse layer number: %w", layerNode.Line(), err)
		}
		name, err := getString(layerNode, 1)
		if err != nil {
			return nil, fmt.Errorf("line %d: failed to parse layer name: %w", layerNode.Line(), err)
		}
		layerType, err := getString(layerNode, 2)
		if err != nil {
			layerType = "user"
		}

		layers = append(layers, Layer{Number: number, Name: name, Type: layerType})
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("no layers defined")
	}
	return layers, nil
}

// parseNets extracts the top-level net table: (net 0 "") (net 1 "GND") ...
func parseNets(root *kicadsexp.List) ([]Net, error) {
	netNodes := findAllNodes(root, "net")
	nets := make([]Net, 0, len(netNodes))

	for _, netNode := range netNodes {
		number, err := getInt(netNode, 1)
		if err != nil {
			return nil, fmt.Errorf("line %d: failed to parse net number: %w", netNode.Line(), err)
		}
		name, _ := getString(netNode, 2)
		nets = append(nets, Net{Number: number, Name: name})
	}

	return nets, nil
}

// resolveNet reads a (net N) reference. KiCad 9 files may carry the net
// name instead of its number.
func resolveNet(node *kicadsexp.List, netMap *NetMap) *Net {
	netNode, found := findNode(node, "net")
	if !found || netMap == nil {
		return nil
	}
	if num, err := getInt(netNode, 1); err == nil {
		if net, ok := netMap.GetByNumber(num); ok {
			return net
		}
		return nil
	}
	if name, err := getString(netNode, 1); err == nil {
		if net, ok := netMap.GetByName(name); ok {
			return net
		}
	}
	return nil
}

// parseSegment extracts a straight track
// Expected format: (segment (start x y) (end x y) (width w) (layer "layer") (net n) ...)
func parseSegment(node *kicadsexp.List, netMap *NetMap) (*Track, error) {
	track := &Track{Line: node.Line()}

	var err error
	if track.Start, err = requirePosition(node, "start"); err != nil {
		return nil, err
	}
	if track.End, err = requirePosition(node, "end"); err != nil {
		return nil, err
	}

	widthNode, found := findNode(node, "width")
	if !found {
		return nil, fmt.Errorf("missing required 'width' field")
	}
	if track.Width, err = getFloat(widthNode, 1); err != nil {
		return nil, fmt.Errorf("failed to parse width: %w", err)
	}

	layerNode, found := findNode(node, "layer")
	if !found {
		return nil, fmt.Errorf("missing required 'layer' field")
	}
	if track.Layer, err = getString(layerNode, 1); err != nil {
		return nil, fmt.Errorf("failed to parse layer: %w", err)
	}

	track.Net = resolveNet(node, netMap)

	if lockedNode, found := findNode(node, "locked"); found {
		// KiCad 7+: (locked yes)
		v, _ := getString(lockedNode, 1)
		track.Locked = v != "no"
	} else {
		track.Locked = hasFlag(node, "locked")
	}

	return track, nil
}

// parseArcTrack extracts a curved track
// Expected format: (arc (start x y) (mid x y) (end x y) (width w) (layer "layer") (net n) ...)
func parseArcTrack(node *kicadsexp.List, netMap *NetMap) (*ArcTrack, error) {
	arc := &ArcTrack{Line: node.Line()}

	var err error
	if arc.Start, err = requirePosition(node, "start"); err != nil {
		return nil, err
	}
	if arc.Mid, err = requirePosition(node, "mid"); err != nil {
		return nil, err
	}
	if arc.End, err = requirePosition(node, "end"); err != nil {
		return nil, err
	}
	if widthNode, found := findNode(node, "width"); found {
		if arc.Width, err = getFloat(widthNode, 1); err != nil {
			return nil, fmt.Errorf("failed to parse width: %w", err)
		}
	}
	if layerNode, found := findNode(node, "layer"); found {
		arc.Layer, _ = getString(layerNode, 1)
	}
	arc.Net = resolveNet(node, netMap)

	return arc, nil
}

// parseTracks parses all top-level (segment ...) nodes in file order
func parseTracks(root *kicadsexp.List, netMap *NetMap) ([]Track, error) {
	segmentNodes := findAllNodes(root, "segment")
	tracks := make([]Track, 0, len(segmentNodes))

	for _, segmentNode := range segmentNodes {
		track, err := parseSegment(segmentNode, netMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: failed to parse segment: %w", segmentNode.Line(), err)
		}
		tracks = append(tracks, *track)
	}

	return tracks, nil
}

// parseArcTracks parses all top-level (arc ...) track nodes. Board
// drawings use gr_arc, so a top-level arc is always copper.
func parseArcTracks(root *kicadsexp.List, netMap *NetMap) ([]ArcTrack, error) {
	arcNodes := findAllNodes(root, "arc")
	arcs := make([]ArcTrack, 0, len(arcNodes))

	for _, arcNode := range arcNodes {
		arc, err := parseArcTrack(arcNode, netMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: failed to parse arc track: %w", arcNode.Line(), err)
		}
		arcs = append(arcs, *arc)
	}

	return arcs, nil
}
