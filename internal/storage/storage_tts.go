package storage

func (s *Storage) SetTTSLocale(guildID, locale string) error {
	return s.update(guildID, func(r *Record) {
		r.TTSLocale = locale
	})
}

// GetTTSLocale returns the guild's stored speech locale, or "" when unset.
func (s *Storage) GetTTSLocale(guildID string) (string, error) {
	record, err := s.read(guildID)
	if err != nil {
		return "", err
	}
	return record.TTSLocale, nil
}
