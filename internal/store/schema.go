package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	recordsTableName       = "records"
	recordCollectionColumn = "collection"
	recordIDColumn         = "id"
	recordSeqColumn        = "seq"
	recordDataColumn       = "data"
	recordUpdatedAtColumn  = "updated_at"
)

var (
	// RecordsColumns holds the columns for the "records" table.
	RecordsColumns = []*schema.Column{
		{Name: recordCollectionColumn, Type: field.TypeString, Size: 64},
		{Name: recordIDColumn, Type: field.TypeString, Size: 255},
		{Name: recordSeqColumn, Type: field.TypeInt64},
		{Name: recordDataColumn, Type: field.TypeBytes},
		{Name: recordUpdatedAtColumn, Type: field.TypeTime},
	}
	// RecordsTable holds the schema information for the "records" table.
	RecordsTable = &schema.Table{
		Name:       recordsTableName,
		Columns:    RecordsColumns,
		PrimaryKey: []*schema.Column{RecordsColumns[0], RecordsColumns[1]},
		Indexes: []*schema.Index{
			{
				Name:    "record_collection_seq",
				Unique:  false,
				Columns: []*schema.Column{RecordsColumns[0], RecordsColumns[2]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		RecordsTable,
	}
)
