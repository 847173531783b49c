package reports

// FromLivestream maps a raw livestream report into the unified record.
// creator_name is never available from this source and stays nil.
func FromLivestream(r LivestreamReport) ModerationReport {
	return ModerationReport{
		ID:              r.ID,
		CreationTime:    r.CreationTime,
		Type:            TypeLivestream,
		TargetID:        r.SessionID,
		ReporterID:      r.ReporterID,
		ReporterName:    r.ReporterName,
		Reason:          r.Reason,
		Description:     r.AdditionalDetails,
		Status:          r.Status,
		CreatedAt:       r.ReportedAt,
		TargetTitle:     r.ChannelName,
		CreatorID:       r.ChefID,
		ChannelName:     r.ChannelName,
		ResolutionNotes: r.ResolutionNotes,
	}
}

// FromVideo maps a raw video report into the unified record.
func FromVideo(r VideoReport) ModerationReport {
	return ModerationReport{
		ID:              r.ID,
		CreationTime:    r.CreationTime,
		Type:            TypeVideo,
		TargetID:        r.VideoID,
		ReporterID:      r.ReporterID,
		ReporterName:    r.ReporterName,
		Reason:          r.Reason,
		Description:     r.Description,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		TargetTitle:     r.VideoTitle,
		CreatorName:     r.CreatorName,
		CreatorID:       r.CreatorID,
		ResolutionNotes: r.ResolutionNotes,
	}
}

// NormalizeLivestream maps a whole source list.
func NormalizeLivestream(raw []LivestreamReport) []ModerationReport {
	out := make([]ModerationReport, len(raw))
	for i, r := range raw {
		out[i] = FromLivestream(r)
	}
	return out
}

// NormalizeVideo maps a whole source list.
func NormalizeVideo(raw []VideoReport) []ModerationReport {
	out := make([]ModerationReport, len(raw))
	for i, r := range raw {
		out[i] = FromVideo(r)
	}
	return out
}
