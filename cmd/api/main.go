package main

// @title Support Relay API
// @version 1.0
// @description Customer-support chat relay: canned intents, support notifications and language-model answers.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /
// @schemes http
import (
	_ "support-relay/docs"
	protocol "support-relay/protocal"

	"github.com/sirupsen/logrus"
)

func main() {
	err := protocol.ServeHTTP()
	if err != nil {
		logrus.Fatalln(err)
	}
}
