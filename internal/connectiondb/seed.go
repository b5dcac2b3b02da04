package connectiondb

import "go-chainmap/internal/refdata"

// SeedGateEdges adds every static gate edge from the reference DB into db
// under the synthetic provider id RefProviderID, per spec.md 3's lifecycle:
// "Static gates: added once into the Connection DB under synthetic provider
// id `ref`." Call once at startup after refdata.Load and before the first
// graph build.
func SeedGateEdges(db *DB, refDB *refdata.DB) {
	for _, pair := range refDB.GateEdges() {
		db.Add(Record{
			ProviderID: RefProviderID,
			EndpointA:  pair[0],
			EndpointB:  pair[1],
			Kind:       Gate,
		})
	}
}
