package idmap

// Lock ordering across the whole core: table -> time-base-handler ->
// console. A Table's mutex is never held across a call into a
// backend, and is never taken while a time-base handler mutex or the
// console mutex is already held by the same goroutine.
