package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/finlink/pkg/bridge"
	"github.com/robotalks/finlink/pkg/framework"
)

func init() {
	bridge.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := bridge.NewConfig()
	port := conf.NewPort()
	if err := port.Open(); err != nil {
		log.Fatalln(err)
	}
	fmt.Println("Serial opened")
	glog.Infof("serial port %s opened at %d baud", conf.Serial.Name, conf.Serial.Baud)

	printer := bridge.NewPrinter(os.Stdout)
	b := conf.NewBridge(port)
	b.Inbound, b.Outbound = printer, printer

	err := framework.NewRunner().
		HandleSignals().
		Go(framework.WithCloser(framework.NamedRun("bridge", b), port)).
		Wait()
	if err != nil {
		glog.Flush()
		log.Fatalln(err)
	}
}
