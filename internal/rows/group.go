package rows

// Group reassembles rows into per-sequence records. Rows may arrive with
// their sequence ids interleaved; records are ordered by the first
// appearance of each sequence id and fields keep their emission order.
func Group(in []Row) []Record {
	index := make(map[uint]int)
	records := make([]Record, 0)

	for _, row := range in {
		i, ok := index[row.Seq]
		if !ok {
			i = len(records)
			index[row.Seq] = i
			records = append(records, Record{Seq: row.Seq})
		}
		records[i].Fields = append(records[i].Fields, Field{Key: row.Key, Value: row.Value})
	}

	return records
}
