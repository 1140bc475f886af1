package mapper

import "github.com/vlm-vfx/FMP-plate-pusher/internal/models"

// Builder turns fetched entities into FileMaker records using a table.
type Builder struct {
	table *Table
}

func NewBuilder(table *Table) *Builder {
	return &Builder{table: table}
}

// Build maps each entity through the table in table order. An entity whose
// every mapped field renders to no value produces no record and a skipped
// status; otherwise one record and a queued status listing the populated
// target fields. Output order mirrors the input order.
func (b *Builder) Build(entities []models.SourceEntity) ([]models.TargetRecord, []models.EntityStatus) {
	records := make([]models.TargetRecord, 0, len(entities))
	statuses := make([]models.EntityStatus, 0, len(entities))

	for _, entity := range entities {
		record := models.TargetRecord{}
		var populated []string

		for _, entry := range b.table.entries {
			raw, present := entity.Fields[entry.SourceField]
			if !present {
				continue
			}
			value, ok := Render(entry, raw)
			if !ok {
				continue
			}
			record[entry.TargetField] = value
			populated = append(populated, entry.TargetField)
		}

		if len(record) == 0 {
			statuses = append(statuses, models.EntityStatus{
				SourceID: entity.ID,
				Status:   models.StatusSkipped,
				Reason:   "no mapped fields present",
			})
			continue
		}

		records = append(records, record)
		statuses = append(statuses, models.EntityStatus{
			SourceID: entity.ID,
			Status:   models.StatusQueued,
			Fields:   populated,
		})
	}

	return records, statuses
}
