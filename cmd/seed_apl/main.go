// seed_apl importa un feed de la APL (Approved Product List) estatal a la
// tabla wic_products. Soporta dos formatos de feed:
//
//   - csv: columnas upc,name,brand,category,size,eligible,price y luego una
//     columna por nutriente (energy_kcal, sugar_g, sodium_mg, sat_fat_g,
//     trans_fat_g, fiber_g, protein_g). Requiere fila de encabezado.
//   - xml: <apl><product upc="..."> con hijos name/brand/category/size/price y
//     <nutrients><nutrient name="..." unit="...">cantidad</nutrient></nutrients>.
//
// Uso: go run ./cmd/seed_apl -file apl.csv [-format csv|xml]
// Si -format se omite se deduce de la extensión del archivo.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wic-assist-api/internal/domain/benefit"
	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
	"github.com/jhoicas/wic-assist-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wic-assist-api/pkg/config"
)

// nutrientUnits unidades por nutriente conocido del feed CSV.
var nutrientUnits = map[string]string{
	"energy_kcal": "kcal",
	"sugar_g":     "g",
	"sodium_mg":   "mg",
	"sat_fat_g":   "g",
	"trans_fat_g": "g",
	"fiber_g":     "g",
	"protein_g":   "g",
}

func main() {
	var (
		file   = flag.String("file", "", "ruta del feed APL a importar")
		format = flag.String("format", "", "formato del feed: csv | xml (por defecto, según extensión)")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "seed_apl: -file es requerido")
		flag.Usage()
		os.Exit(2)
	}
	if *format == "" {
		*format = strings.TrimPrefix(strings.ToLower(filepath.Ext(*file)), ".")
	}

	products, err := parseFeed(*file, *format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer feed: %v\n", err)
		os.Exit(1)
	}
	if len(products) == 0 {
		fmt.Fprintln(os.Stderr, "El feed no contiene productos")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewProductRepository(pool)
	var imported, failed int
	for _, p := range products {
		if err := repo.Upsert(ctx, p); err != nil {
			fmt.Fprintf(os.Stderr, "UPC %s: %v\n", p.UPC, err)
			failed++
			continue
		}
		imported++
	}

	fmt.Printf("Importados %d productos (%d con error) desde %s\n", imported, failed, *file)
	if failed > 0 {
		os.Exit(1)
	}
}

func parseFeed(path, format string) ([]*entity.Product, error) {
	switch format {
	case "csv":
		return parseCSV(path)
	case "xml":
		return parseXML(path)
	default:
		return nil, fmt.Errorf("formato no soportado: %q (use csv o xml)", format)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CSV
// ──────────────────────────────────────────────────────────────────────────────

func parseCSV(path string) ([]*entity.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"upc", "name", "category"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("falta la columna requerida %q", required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []*entity.Product
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}

		upc := field(rec, "upc")
		if upc == "" {
			continue
		}
		p := &entity.Product{
			UPC:      upc,
			Name:     field(rec, "name"),
			Brand:    field(rec, "brand"),
			Category: benefit.Canon(field(rec, "category")),
			Size:     field(rec, "size"),
		}
		if v := field(rec, "eligible"); v != "" {
			eligible, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("fila %d: eligible inválido %q", line, v)
			}
			p.Eligible = eligible
		}
		if v := field(rec, "price"); v != "" {
			price, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("fila %d: price inválido %q", line, v)
			}
			p.Price = price
		}
		for name, unit := range nutrientUnits {
			v := field(rec, name)
			if v == "" {
				continue
			}
			amount, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("fila %d: %s inválido %q", line, name, v)
			}
			p.Nutrients = append(p.Nutrients, entity.Nutrient{Name: name, Amount: amount, Unit: unit})
		}
		out = append(out, p)
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// XML
// ──────────────────────────────────────────────────────────────────────────────

func parseXML(path string) ([]*entity.Product, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, err
	}
	root := doc.SelectElement("apl")
	if root == nil {
		return nil, fmt.Errorf("el feed no tiene elemento raíz <apl>")
	}

	var out []*entity.Product
	for _, el := range root.SelectElements("product") {
		upc := strings.TrimSpace(el.SelectAttrValue("upc", ""))
		if upc == "" {
			continue
		}
		p := &entity.Product{
			UPC:      upc,
			Name:     childText(el, "name"),
			Brand:    childText(el, "brand"),
			Category: benefit.Canon(childText(el, "category")),
			Size:     childText(el, "size"),
		}
		if v := childText(el, "eligible"); v != "" {
			eligible, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("upc %s: eligible inválido %q", upc, v)
			}
			p.Eligible = eligible
		}
		if v := childText(el, "price"); v != "" {
			price, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("upc %s: price inválido %q", upc, v)
			}
			p.Price = price
		}
		if nuts := el.SelectElement("nutrients"); nuts != nil {
			for _, n := range nuts.SelectElements("nutrient") {
				name := strings.TrimSpace(n.SelectAttrValue("name", ""))
				raw := strings.TrimSpace(n.Text())
				if name == "" || raw == "" {
					continue
				}
				amount, err := decimal.NewFromString(raw)
				if err != nil {
					return nil, fmt.Errorf("upc %s: nutriente %s inválido %q", upc, name, raw)
				}
				p.Nutrients = append(p.Nutrients, entity.Nutrient{
					Name:   name,
					Amount: amount,
					Unit:   n.SelectAttrValue("unit", ""),
				})
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func childText(el *etree.Element, name string) string {
	child := el.SelectElement(name)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
