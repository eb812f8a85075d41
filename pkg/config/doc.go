// Package config loads subscription files.
//
// A subscription file is YAML. Entries under subscriptions may be written as a
// mapping with class, instance and recipient keys or in the comma form
// "class,instance,recipient":
//
//	realm: ATHENA.MIT.EDU
//	defaults: true
//	subscriptions:
//	  - class: message
//	    instance: personal
//	    recipient: "*"
//	  - "help,*,*"
package config
