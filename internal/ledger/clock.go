package ledger

import "time"

// timeAfter is swappable in tests to avoid real sleeps in the retry loop
var timeAfter = time.After
