package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func loadTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Load("testdata")
	require.NoError(t, err)
	return db
}

func TestLoadSystemsAndClasses(t *testing.T) {
	db := loadTestDB(t)
	require.Equal(t, 19, db.SystemCount())

	jita := db.System(30000013)
	require.NotNil(t, jita)
	require.Equal(t, "Jita", jita.Name)
	require.Equal(t, HS, jita.Class)

	tama := db.System(30000007)
	require.NotNil(t, tama)
	require.Equal(t, LS, tama.Class)

	gq86 := db.System(31000001)
	require.NotNil(t, gq86)
	require.Equal(t, WH, gq86.Class)

	zarzakh := db.System(ZarzakhID)
	require.NotNil(t, zarzakh)
	require.Equal(t, ZARZAKH, zarzakh.Class)
}

func TestSystemByName(t *testing.T) {
	db := loadTestDB(t)
	id, ok := db.SystemByName("Dodixie")
	require.True(t, ok)
	require.Equal(t, 30000001, id)

	_, ok = db.SystemByName("Nonexistent System XYZ")
	require.False(t, ok)
}

func TestGateEdgesLoaded(t *testing.T) {
	db := loadTestDB(t)
	edges := db.GateEdges()
	require.Len(t, edges, 18)
}

func TestApplyRenames(t *testing.T) {
	dir := t.TempDir()
	copyFile(t, "testdata/mapRegions.csv", filepath.Join(dir, "mapRegions.csv"))
	copyFile(t, "testdata/mapSolarSystems.csv", filepath.Join(dir, "mapSolarSystems.csv"))
	copyFile(t, "testdata/mapSolarSystemJumps.csv", filepath.Join(dir, "mapSolarSystemJumps.csv"))
	copyFile(t, "testdata/mapLocationWormholeClasses.csv", filepath.Join(dir, "mapLocationWormholeClasses.csv"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "renames.csv"),
		[]byte("old_name,new_name\nP1,Renamed System\n"), 0o644))

	db, err := Load(dir)
	require.NoError(t, err)

	id, ok := db.SystemByName("Renamed System")
	require.True(t, ok)
	require.Equal(t, 30000002, id)

	_, ok = db.SystemByName("P1")
	require.False(t, ok)
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func TestWormholeTypeSizeAndClassPair(t *testing.T) {
	require.Equal(t, SizeSmall, WormholeTypeSize("E004"))
	require.Equal(t, SizeUnknown, WormholeTypeSize("NOPE"))
	require.Equal(t, SizeMedium, ClassPairSize(HS, LS))
	require.Equal(t, SizeMedium, ClassPairSize(LS, HS))
	require.Equal(t, SizeUnknown, ClassPairSize(TRIG, ZARZAKH))
}

func TestLoadStatics(t *testing.T) {
	statics, err := LoadStatics("testdata/statics.csv")
	require.NoError(t, err)
	require.Len(t, statics, 6)
	require.Equal(t, []string{"B274", "C247"}, statics[0].TypeCodes)
}
