// Package seedfile persists accepted seeds so a run can be resumed or
// extended later.
//
// The format is plain text:
//
//	# buddhabrot seeds v1
//	-0.7436438870371587 0.13182590420531198
//	0.2925 -0.0150001
//
// One seed per line, real part first. Order is discovery order.
package seedfile
