package storage

// AppendCommandToHistory appends a command history record for a guild,
// keeping only the latest entries.
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	return s.update(guildID, func(r *Record) {
		r.CommandsHistoryList = trimTail(append(r.CommandsHistoryList, command), commandHistoryLimit)
	})
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	record, err := s.read(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}
