package queue

import (
	"database/sql"
	"errors"
	"time"
)

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id           int64
		kindStr      string
		statusStr    string
		title        string
		season       sql.NullInt64
		disc         sql.NullInt64
		year         sql.NullInt64
		imdbID       sql.NullString
		packageIndex sql.NullInt64
		barcode      sql.NullString
		format       sql.NullString
		episodes     sql.NullString
		jobDir       sql.NullString
		errorMessage sql.NullString
		reason       sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&kindStr,
		&statusStr,
		&title,
		&season,
		&disc,
		&year,
		&imdbID,
		&packageIndex,
		&barcode,
		&format,
		&episodes,
		&jobDir,
		&errorMessage,
		&reason,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:           id,
		Kind:         Kind(kindStr),
		Status:       Status(statusStr),
		Title:        title,
		Season:       int(season.Int64),
		Disc:         int(disc.Int64),
		Year:         int(year.Int64),
		IMDBID:       imdbID.String,
		PackageIndex: int(packageIndex.Int64),
		Barcode:      barcode.String,
		Format:       format.String,
		EpisodesJSON: episodes.String,
		JobDir:       jobDir.String,
		ErrorMessage: errorMessage.String,
		Reason:       reason.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
