package manifest

import "strings"

// MovieRow is one owned movie disc from the collection-manager export.
type MovieRow struct {
	// Index is the 1-based row number in the export, used as the package
	// index tag when one boxed set yields several identical titles.
	Index   int
	Barcode string
	Title   string
	Year    int // 0 when the export has no usable year
	IMDBID  string
	Format  string
}

// ReadMovieCollection parses the collection export CSV. TV rows are
// filtered out, as are rows without a title or an IMDb id: downstream
// naming depends on the id to force library matching, so a row without one
// cannot be automated.
func ReadMovieCollection(path string) ([]MovieRow, error) {
	var movies []MovieRow
	rowNum := 0

	err := readRows(path, func(r row) {
		rowNum++

		switch strings.ToLower(r.get("Is TV Series")) {
		case "yes", "true", "1":
			return
		}

		title := r.get("Title")
		if title == "" {
			return
		}
		imdbID := ParseIMDBID(r.get("IMDb Url"))
		if imdbID == "" {
			return
		}

		year, _ := parseInt(r.get("Release Year", "Year"))
		movies = append(movies, MovieRow{
			Index:   rowNum,
			Barcode: NormalizeBarcode(r.get("Barcode", "UPC", "Upc")),
			Title:   title,
			Year:    year,
			IMDBID:  imdbID,
			Format:  r.get("Format"),
		})
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}
