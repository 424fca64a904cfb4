package cmd

import (
	"io"

	"github.com/rodaine/table"

	"github.com/sitemd/sitemd/internal/pipeline"
)

func summaryTable(out io.Writer) table.Table {
	return table.New("Stage", "Metric", "Count").WithWriter(out)
}

func crawlRows(tbl table.Table, sum pipeline.CrawlSummary) {
	tbl.AddRow("crawl", "pages in sitemap", sum.Total)
	tbl.AddRow("crawl", "pages saved", sum.Saved)
	tbl.AddRow("crawl", "pages failed", sum.Failed)
}

func convertRows(tbl table.Table, sum pipeline.ConvertSummary) {
	tbl.AddRow("convert", "pages stored", sum.Total)
	tbl.AddRow("convert", "pages converted", sum.Converted)
	tbl.AddRow("convert", "pages skipped", sum.Skipped)
	tbl.AddRow("convert", "pages failed", sum.Failed)
}

func printCrawlSummary(out io.Writer, sum pipeline.CrawlSummary) {
	tbl := summaryTable(out)
	crawlRows(tbl, sum)
	tbl.Print()
}

func printConvertSummary(out io.Writer, sum pipeline.ConvertSummary) {
	tbl := summaryTable(out)
	convertRows(tbl, sum)
	tbl.Print()
}

func printRunSummary(out io.Writer, sum pipeline.RunSummary) {
	tbl := summaryTable(out)

	if sum.RanCrawl {
		crawlRows(tbl, sum.Crawl)
	}

	if sum.RanConvert {
		convertRows(tbl, sum.Convert)
	}

	tbl.Print()
}
