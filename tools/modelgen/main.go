package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

func main() {
	var dsn, out, only string
	flag.StringVar(&dsn, "dsn", os.Getenv("QUAKENAV_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.StringVar(&only, "tables", "grid_baselines", "comma-separated tables to generate; empty means all")
	flag.Parse()

	var tables []string
	for _, name := range strings.Split(only, ",") {
		if name = strings.TrimSpace(name); name != "" && name != "schema_migrations" {
			tables = append(tables, name)
		}
	}

	if dsn == "" {
		log.Fatal("missing --dsn or QUAKENAV_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:      out,
		ModelPkgPath: "model",
		Mode:         gen.WithoutContext | gen.WithDefaultQuery,
	})
	g.UseDB(db)
	if len(tables) == 0 {
		g.GenerateAllTable()
	} else {
		for _, name := range tables {
			g.GenerateModel(name)
		}
	}
	g.Execute()

	fmt.Printf("generated gorm models at %s\n", out)
}
