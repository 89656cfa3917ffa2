package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Writes two gzipped catalogue feeds under data/uploads/feeds for the admin
// import endpoint. FRN-0001 appears in both files; the second file's row wins.
func main() {
	dataDir := filepath.Join("data", "uploads", "feeds")

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	header := "codigo;marca;codigo_marca;nombre;categoria;subcategoria;precio;precio_mayorista;stock"

	feeds := map[string][]string{
		"catalogo_base.csv.gz": {
			"FRN-0001;Bosch;0986AB1234;Pastillas de freno delanteras;Frenos;Pastillas;24990;19990;40",
			"FRN-0002;Brembo;P85020;Disco de freno ventilado;Frenos;Discos;45990;38990;12",
			"FLT-0001;Mann;W712/75;Filtro de aceite;Filtros;Aceite;8990;6990;150",
			"FLT-0002;Mahle;LX1566;Filtro de aire;Filtros;Aire;12990,50;;80",
			"SUS-0001;Monroe;G7345;Amortiguador trasero;Suspensión;Amortiguadores;39990;32990;20",
		},
		"catalogo_ofertas.csv.gz": {
			"FRN-0001;Bosch;0986AB1234;Pastillas de freno delanteras;Frenos;Pastillas;21990;17990;55",
			"ELC-0001;Varta;E11;Batería 74Ah;Eléctrico;Baterías;89990;79990;8",
			"ELC-0002;NGK;BKR6E;Bujía de encendido;Eléctrico;Encendido;4990;3990;300",
			"MAL-0001;Sin marca;;Fila sin precio;Varios;;;;1",
		},
	}

	for filename, rows := range feeds {
		filePath := filepath.Join(dataDir, filename)

		if err := createFeedFile(filePath, header, rows); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d rows\n", filePath, len(rows))
	}

	fmt.Println("\nSample catalogue feeds created successfully!")
	fmt.Println(`Import them with: POST /api/admin/productos/importar {"keys":["feeds/catalogo_base.csv.gz","feeds/catalogo_ofertas.csv.gz"]}`)
	fmt.Println("MAL-0001 has no price and is reported as a row error.")
}

func createFeedFile(filePath, header string, rows []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	if _, err := gzipWriter.Write([]byte(content)); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	return nil
}
