package Models

import (
	"log"

	"Oryx/Config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg Config.AppConfig) {
	connection, err := gorm.Open(sqlite.Open(cfg.DatabasePath))
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	DB = connection

	// Reference data first, then rows that point at it
	DB.AutoMigrate(
		&User{},
		&TollGate{},
		&HighRiskArea{},
	)
	DB.AutoMigrate(
		&Vehicle{},
		&DispatchLog{},
	)

	if err := SeedReferenceData(DB); err != nil {
		log.Printf("Error seeding reference data: %v", err)
	}
}

// SeedReferenceData inserts the bundled toll-gate and risk-area rows when the
// tables are empty. The rows mirror the shape of the hosted datasets so the
// parsers get exercised against realistic strings.
func SeedReferenceData(db *gorm.DB) error {
	var gateCount int64
	db.Model(&TollGate{}).Count(&gateCount)
	if gateCount == 0 {
		gates := []TollGate{
			{Name: "N1 Huguenot", Coordinates: "19.0836,-33.7147", RadiusKm: 1.2},
			{Name: "N1 Grasmere", Coordinates: "27.8851,-26.4221", RadiusKm: 1.0},
			{Name: "N3 Mariannhill", Coordinates: "30.8163,-29.8289", RadiusKm: 1.0},
			{Name: "N3 Mooi River", Coordinates: "29.9893,-29.2070", RadiusKm: 1.0},
			{Name: "N2 Tsitsikamma", Coordinates: "23.9045,-33.9680", RadiusKm: 1.0},
		}
		if err := db.Create(&gates).Error; err != nil {
			return err
		}
		log.Printf("Seeded %d toll gates", len(gates))
	}

	var areaCount int64
	db.Model(&HighRiskArea{}).Count(&areaCount)
	if areaCount == 0 {
		areas := []HighRiskArea{
			{
				Name: "Jeppestown", Type: "hijacking",
				Coordinates: "28.0560,-26.2010 28.0560,-26.1940 28.0680,-26.1940 28.0680,-26.2010",
			},
			{
				Name: "Cato Manor", Type: "unrest",
				Coordinates: "30.9530,-29.8700 30.9530,-29.8580 30.9700,-29.8580 30.9700,-29.8700",
			},
			{
				Name: "Philippi East", Type: "hijacking",
				Coordinates: "18.5890,-34.0100 18.5890,-33.9950 18.6120,-33.9950 18.6120,-34.0100",
			},
		}
		if err := db.Create(&areas).Error; err != nil {
			return err
		}
		log.Printf("Seeded %d high-risk areas", len(areas))
	}

	return nil
}
