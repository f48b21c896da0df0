// Command pontber-cli renders one report variant from an xlsx timesheet
// without running the server. Useful for batch jobs and quick checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"pontber/internal/cli"
	"pontber/internal/dataset"
	applog "pontber/internal/log"
	"pontber/internal/report"
	"pontber/internal/services"
	"pontber/internal/xlsx"
)

func main() {
	var (
		inPath    = flag.String("in", "", "input timesheet (.xlsx)")
		outPath   = flag.String("out", "", "output report file (default: <variant>.xlsx)")
		variantID = flag.String("variant", "", "report variant: "+variantIDs())
		multA     = flag.Float64("a", 0, "default multiplier A")
		multB     = flag.Float64("b", 0, "default multiplier B")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	if *inPath == "" || *variantID == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*inPath)
	if err != nil {
		logger.Error("Cannot open timesheet", applog.FieldError, err, "path", *inPath)
		os.Exit(1)
	}
	sheet, err := xlsx.Decode(f)
	f.Close()
	if err != nil {
		logger.Error("Cannot decode timesheet", applog.FieldError, err, "path", *inPath)
		os.Exit(1)
	}

	store := dataset.NewStore(*multA, *multB)
	count := store.Reload(sheet, *inPath)
	logger.Info("Timesheet loaded", applog.FieldSource, *inPath, applog.FieldRowCount, count)

	svc := services.NewReportService(store, nil, nil)
	result, err := svc.Generate(context.Background(), *variantID)
	if err != nil {
		logger.Error("Report generation failed", applog.FieldError, err, applog.FieldVariant, *variantID)
		os.Exit(1)
	}

	target := *outPath
	if target == "" {
		target = *variantID + ".xlsx"
	}
	if err := os.WriteFile(target, result.Content, 0644); err != nil {
		logger.Error("Cannot write report", applog.FieldError, err, "path", target)
		os.Exit(1)
	}

	fmt.Printf("%s: %d sor, %d összegzés, fizetés összesen %g\n",
		target, result.RowCount, result.SummaryCount, result.PaymentTotal)
}

func variantIDs() string {
	ids := make([]string, 0, 4)
	for _, v := range report.Variants() {
		ids = append(ids, v.ID)
	}
	return strings.Join(ids, ", ")
}
