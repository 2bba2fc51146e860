package smoke

// Default run sizes.
const (
	DefaultPointers = 500
	DefaultChats    = 20
	DefaultFrames   = 5
)

// criticalThreshold mirrors the dashboard's critical band.
const criticalThreshold = 1.5

// maxZones is the longest "zones in tension" list the dashboard may return.
const maxZones = 6

// Outcomes of a single request.
const (
	outcomeAccepted  = "accepted"
	outcomeThrottled = "throttled"
	outcomeDuplicate = "duplicate"
	outcomeAnswered  = "answered"
	outcomeFailed    = "failed"
)

const percentageMultiplier = 100

// nonsenseTerm matches no job title or zone.
const nonsenseTerm = "zzz-aucun-metier"
