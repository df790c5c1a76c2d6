package social

// reverseWindow computes the visible slice of a listing of the given length
// when paging from the most-recent end: [max(0, L-limit-fromIndex),
// max(0, L-fromIndex)). Callers reverse the slice so pages read newest-first.
// Subtraction only: fromIndex and limit are caller-supplied and may sit near
// the uint64 ceiling, so nothing here is allowed to add.
func reverseWindow(length, fromIndex, limit uint64) (uint64, uint64) {
	to := length - min(length, fromIndex)
	from := to - min(to, limit)
	return from, to
}

// pageReverse returns the newest-first page of an insertion-ordered listing.
func pageReverse(list []string, fromIndex, limit uint64) []string {
	from, to := reverseWindow(uint64(len(list)), fromIndex, limit)
	page := make([]string, 0, to-from)
	for i := to; i > from; i-- {
		page = append(page, list[i-1])
	}
	return page
}

// pageForward returns the oldest-first page [fromIndex, fromIndex+limit) of a
// listing; follower and account listings page this way.
func pageForward(list []string, fromIndex, limit uint64) []string {
	length := uint64(len(list))
	if fromIndex >= length {
		return []string{}
	}
	end := fromIndex + min(limit, length-fromIndex)
	return list[fromIndex:end]
}
