package shopscout

var Version = "v0.1.0"
