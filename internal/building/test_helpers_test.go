package building

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/database"
	_ "github.com/nerrad567/ecobuild-core/migrations" // registers the schema
)

// testDB opens a migrated temp-file database.
func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "buildings.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

// seedUser inserts a bare user row so buildings have an owner.
func seedUser(t *testing.T, db *database.DB, id string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO users (id, username, password_hash, created_at, updated_at)
		 VALUES (?, ?, 'x', '2026-01-01T00:00:00.000000000Z', '2026-01-01T00:00:00.000000000Z')`,
		id, "user-"+id,
	)
	require.NoError(t, err)
}

// sampleData returns a complete, valid wizard description.
func sampleData() BuildingData {
	return BuildingData{
		ProjectName:        "Harbour View",
		LocationRegion:     RegionEast,
		HousingType:        HousingStudioApartment,
		Floors:             Floors6To10,
		RoomsMin:           1,
		RoomsMax:           6,
		Elevators:          2,
		SpacePerRoom:       Space300To500,
		ArchitecturalStyle: StyleModern,
		MaterialType:       MaterialCrossLaminate,
		WasteReduction:     []WasteOption{WasteConstructionRecycling},
		EnergyEfficiency:   []EnergyOption{EnergySolarPanels, EnergyHeatPumps},
		ResourceEfficiency: ResourceEfficiency{
			ThermalMass:         true,
			BuildingOrientation: "South-facing",
			EnvelopeUValue:      0.25,
		},
		WaterFixtures:      WaterLowFlow,
		AdditionalFeatures: "Bike storage",
	}
}

// sampleResult returns a result with two recommendations per category.
func sampleResult(score int) AnalysisResult {
	return AnalysisResult{
		SustainabilityScore: score,
		Summary:             "A solid design with room to improve water reuse.",
		Recommendations: map[Category][]string{
			CategoryEnergy:    {"Add battery storage", "Use heat recovery ventilation"},
			CategoryWater:     {"Harvest rainwater", "Install greywater recycling"},
			CategoryMaterials: {"Source local timber", "Use recycled steel"},
			CategorySiteWaste: {"Plan on-site sorting", "Compost landscaping waste"},
		},
	}
}
