package ports

type SimMetrics interface {
	RecordStep(changedCells int)
	RecordDiscard()
	RecordFailure()
	RecordCompletion()
}
