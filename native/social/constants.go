package social

const (
	// MaxTitleLength caps post titles and topic/community names.
	MaxTitleLength = 280
	// MaxDescriptionLength caps topic and community descriptions.
	MaxDescriptionLength = 10000
	// ContentHashLength is the exact length of a content-addressed body hash.
	ContentHashLength = 46
	// MaxChestMessageLength caps the message carried by a chest.
	MaxChestMessageLength = 140

	// MaxChestsPerAccount caps chests placed through PlaceChest.
	MaxChestsPerAccount = 4

	// DefaultTopicID is seeded at engine initialisation so every post has a
	// topic to land on.
	DefaultTopicID = "default"

	// TopK is the fixed size of the top-users / top-communities listings.
	TopK = 8

	OneDaySeconds  = 86400
	OneWeekSeconds = 604800

	// DefaultChestExpiry is the lifetime of a freshly placed chest, in seconds.
	DefaultChestExpiry = OneWeekSeconds
)
