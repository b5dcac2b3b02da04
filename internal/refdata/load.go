package refdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Load reads five of the six reference CSV files from dir (statics.csv is
// read separately by LoadStatics) and builds an immutable DB. Every file is
// UTF-8 CSV with a header row.
//
// CSV is read with the standard library's encoding/csv: none of the example
// repositories in the training corpus import a third-party CSV library, and
// these files are CCP's historical Static Data Export dumps, the canonical
// format spec.md names — there is no ecosystem package with a natural claim
// here (see DESIGN.md).
func Load(dir string) (*DB, error) {
	regions, err := loadRegions(filepath.Join(dir, "mapRegions.csv"))
	if err != nil {
		return nil, fmt.Errorf("refdata: loading regions: %w", err)
	}

	trig, err := loadTrigSystems(filepath.Join(dir, "mapLocationWormholeClasses.csv"))
	if err != nil {
		return nil, fmt.Errorf("refdata: loading wormhole classes: %w", err)
	}

	systems, nameToID, err := loadSystems(filepath.Join(dir, "mapSolarSystems.csv"), trig)
	if err != nil {
		return nil, fmt.Errorf("refdata: loading systems: %w", err)
	}

	if err := applyRenames(filepath.Join(dir, "renames.csv"), systems, nameToID); err != nil {
		return nil, fmt.Errorf("refdata: applying renames: %w", err)
	}

	gateEdges, err := loadGateEdges(filepath.Join(dir, "mapSolarSystemJumps.csv"), systems)
	if err != nil {
		return nil, fmt.Errorf("refdata: loading gate edges: %w", err)
	}

	return &DB{
		systems:     systems,
		nameToID:    nameToID,
		regions:     regions,
		gateEdges:   gateEdges,
		trigSystems: trig,
	}, nil
}

func openCSV(path string) (*csv.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	return r, f, nil
}

// header indexes a CSV header row by column name, case-insensitively.
func header(cols []string) map[string]int {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return idx
}

func loadRegions(path string) (map[int]*Region, error) {
	r, f, err := openCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int]*Region{}, nil
		}
		return nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return map[int]*Region{}, nil
	}
	idx := header(rows[0])
	out := make(map[int]*Region, len(rows)-1)
	for _, row := range rows[1:] {
		id, err := strconv.Atoi(strings.TrimSpace(row[idx["id"]]))
		if err != nil {
			continue
		}
		out[id] = &Region{ID: id, Name: row[idx["name"]]}
	}
	return out, nil
}

// loadTrigSystems treats mapLocationWormholeClasses.csv's optional "trig"
// column as the Triglavian-occupied flag; the file's primary job (location
// id -> wormhole class, for the class-pair size chart) is left to callers
// that need the full chart, since no component in this codebase currently
// consults it beyond this flag.
func loadTrigSystems(path string) (map[int]bool, error) {
	r, f, err := openCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int]bool{}, nil
		}
		return nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	out := map[int]bool{}
	if len(rows) == 0 {
		return out, nil
	}
	idx := header(rows[0])
	trigCol, hasTrig := idx["trig"]
	if !hasTrig {
		return out, nil
	}
	for _, row := range rows[1:] {
		id, err := strconv.Atoi(strings.TrimSpace(row[idx["location_id"]]))
		if err != nil {
			continue
		}
		if trigCol < len(row) && strings.EqualFold(strings.TrimSpace(row[trigCol]), "true") {
			out[id] = true
		}
	}
	return out, nil
}

func loadSystems(path string, trig map[int]bool) (map[int]*System, map[string]int, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	systems := make(map[int]*System, len(rows))
	nameToID := make(map[string]int, len(rows))
	if len(rows) == 0 {
		return systems, nameToID, nil
	}
	idx := header(rows[0])
	overrideCol, hasOverride := idx["class_override"]

	for _, row := range rows[1:] {
		id, err := strconv.Atoi(strings.TrimSpace(row[idx["id"]]))
		if err != nil {
			continue
		}
		name := strings.TrimSpace(row[idx["name"]])
		regionID, _ := strconv.Atoi(strings.TrimSpace(row[idx["region_id"]]))
		security, _ := strconv.ParseFloat(strings.TrimSpace(row[idx["security"]]), 64)

		var class SecurityClass
		if hasOverride && overrideCol < len(row) && strings.TrimSpace(row[overrideCol]) != "" {
			class = SecurityClass(strings.ToUpper(strings.TrimSpace(row[overrideCol])))
		} else {
			class = classifySystem(id, security, trig)
		}

		sys := &System{ID: id, Name: name, RegionID: regionID, Security: security, Class: class}
		systems[id] = sys
		nameToID[name] = id
	}
	return systems, nameToID, nil
}

func applyRenames(path string, systems map[int]*System, nameToID map[string]int) error {
	r, f, err := openCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	idx := header(rows[0])
	for _, row := range rows[1:] {
		oldName := strings.TrimSpace(row[idx["old_name"]])
		newName := strings.TrimSpace(row[idx["new_name"]])
		id, ok := nameToID[oldName]
		if !ok {
			continue
		}
		delete(nameToID, oldName)
		systems[id].Name = newName
		nameToID[newName] = id
	}
	return nil
}

func loadGateEdges(path string, systems map[int]*System) ([][2]int, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	idx := header(rows[0])
	fromCol, toCol := idx["from_id"], idx["to_id"]

	edges := make([][2]int, 0, len(rows))
	seen := make(map[[2]int]bool, len(rows))
	for _, row := range rows[1:] {
		from, err1 := strconv.Atoi(strings.TrimSpace(row[fromCol]))
		to, err2 := strconv.Atoi(strings.TrimSpace(row[toCol]))
		if err1 != nil || err2 != nil {
			continue
		}
		if systems[from] == nil || systems[to] == nil {
			continue
		}
		key := [2]int{from, to}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		edges = append(edges, key)
	}
	return edges, nil
}

// LoadStatics reads statics.csv into a WormholeClass -> expected static type
// codes table. Kept separate from Load; the router, the graph and the
// providers do not consult it.
func LoadStatics(path string) ([]StaticType, error) {
	r, f, err := openCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	idx := header(rows[0])
	out := make([]StaticType, 0, len(rows)-1)
	for _, row := range rows[1:] {
		class, err := strconv.Atoi(strings.TrimSpace(row[idx["wormhole_class"]]))
		if err != nil {
			continue
		}
		codes := strings.Split(strings.TrimSpace(row[idx["type_codes"]]), ";")
		for i := range codes {
			codes[i] = strings.TrimSpace(codes[i])
		}
		out = append(out, StaticType{WormholeClass: class, TypeCodes: codes})
	}
	return out, nil
}
